package main

import (
	"fmt"

	"github.com/suitools/suicli/internal/vault"
)

func (c *AddCmd) Run(rc *runContext) error {
	store := vault.Open(rc.cfg.Vault.Path)

	privateKey, err := readSecret("Private key (suiprivkey... or hex)")
	if err != nil {
		return err
	}
	password, err := readSecretConfirmed("Vault password")
	if err != nil {
		return err
	}

	rec, err := store.Add(c.Name, privateKey, password)
	if err != nil {
		return err
	}
	fmt.Printf("Stored %q\n  address: %s\n", rec.Name, rec.Address)
	return nil
}

func (c *ListCmd) Run(rc *runContext) error {
	store := vault.Open(rc.cfg.Vault.Path)
	recs, err := store.List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("The vault is empty. Import a key with: suicli add <name>")
		return nil
	}
	for i, rec := range recs {
		fmt.Printf("%3d. %-20s %s\n", i+1, rec.Name, rec.Address)
	}
	return nil
}

func (c *AddressCmd) Run(rc *runContext) error {
	store := vault.Open(rc.cfg.Vault.Path)
	rec, err := store.Get(c.Name)
	if err != nil {
		return err
	}
	fmt.Println(rec.Address)
	return nil
}

func (c *RemoveCmd) Run(rc *runContext) error {
	store := vault.Open(rc.cfg.Vault.Path)
	password, err := readSecret("Vault password")
	if err != nil {
		return err
	}
	if err := store.Remove(c.Name, password); err != nil {
		return err
	}
	fmt.Printf("Removed %q\n", c.Name)
	return nil
}
