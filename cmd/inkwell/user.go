package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/users"
)

var userFlags struct {
	file     string
	password string
	cost     int
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the credential ledger",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userFlags.password == "" {
			return fmt.Errorf("usage: inkwell user add <username> -p <password>")
		}
		if userFlags.cost < bcrypt.MinCost || userFlags.cost > bcrypt.MaxCost {
			return fmt.Errorf("invalid cost %d (min=%d max=%d)", userFlags.cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		ledger, err := users.Open(userFlags.file, userFlags.cost)
		if err != nil {
			return err
		}
		if err := ledger.Register(args[0], userFlags.password); err != nil {
			return err
		}
		fmt.Printf("added %s\n", args[0])
		return nil
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <username>",
	Short: "Remove a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := users.Open(userFlags.file, bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := ledger.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var userLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := users.Open(userFlags.file, bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		for _, name := range ledger.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	userCmd.PersistentFlags().StringVar(&userFlags.file, "users", "users.yml", "credential ledger file")
	userAddCmd.Flags().StringVarP(&userFlags.password, "password", "p", "", "password (required)")
	userAddCmd.Flags().IntVar(&userFlags.cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	userCmd.AddCommand(userAddCmd, userRmCmd, userLsCmd)
	rootCmd.AddCommand(userCmd)
}
