/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mikeb26/midway/internal/config"
)

func setupMain(ctx context.Context, args []string) error {
	in := bufio.NewReader(os.Stdin)

	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	vendors := config.GetVendors()
	fmt.Printf("Enter text vendor [%v]: ", strings.Join(vendors, ", "))
	vendor, err := in.ReadString('\n')
	if err != nil {
		return err
	}
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	if vendor == "" {
		vendor = cfg.Vendor
	}
	info := config.GetVendorInfo(vendor)
	if info.Name == "" {
		return fmt.Errorf("Vendor %v is not currently supported", vendor)
	}
	cfg.Vendor = vendor

	fmt.Printf("Enter model [%v]: ", info.DefaultModel)
	model, err := in.ReadString('\n')
	if err != nil {
		return err
	}
	cfg.Model = strings.TrimSpace(model)

	fmt.Printf("%v API keys can be created at %v\n", info.FullName,
		info.ApiKeyUrl)
	key, err := promptSecret(in,
		fmt.Sprintf("Enter your %v API key (blank keeps existing): ", vendor))
	if err != nil {
		return err
	}
	if key != "" {
		err = config.SaveAPIKey(vendor, key)
		if err != nil {
			return err
		}
	}

	// Card art renders on Gemini; offer a google key even when another
	// vendor writes the text.
	if vendor != "google" {
		gInfo := config.GetVendorInfo("google")
		fmt.Printf("Card art uses %v. Keys can be created at %v\n",
			gInfo.FullName, gInfo.ApiKeyUrl)
		gKey, gErr := promptSecret(in,
			"Enter a google API key for card art (blank to skip): ")
		if gErr != nil {
			return gErr
		}
		if gKey != "" {
			err = config.SaveAPIKey("google", gKey)
			if err != nil {
				return err
			}
		}
	}

	enablePrinter, err := promptYesNo(in, "Spool printable cards?", true)
	if err != nil {
		return err
	}
	cfg.Printer.Enabled = enablePrinter

	enableMirror, err := promptYesNo(in,
		fmt.Sprintf("Serve the panel mirror on %v?", cfg.Mirror.ListenAddr),
		cfg.Mirror.Enabled)
	if err != nil {
		return err
	}
	cfg.Mirror.Enabled = enableMirror

	err = config.Save(cfg, cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %v\n", cfgPath)

	return nil
}
