/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/auth"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/db"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/rules"
)

var seedRulesCmd = &cobra.Command{
	Use:   "seed-rules <file>",
	Short: "Load timing rules from a YAML file",
	Long:  "Upsert the timing rules (stage hours per procedure/level/case-type triple) from a YAML seed document.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedRules,
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <email> <password> <role>",
	Short: "Create an API user",
	Long:  "Create a user account with one of the roles: admin, programmer, viewer.",
	Args:  cobra.ExactArgs(3),
	RunE:  runCreateUser,
}

func init() {
	rootCmd.AddCommand(seedRulesCmd)
	rootCmd.AddCommand(createUserCmd)
}

func runSeedRules(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return err
	}

	count, err := rules.New(database, logger).SeedFromFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}

	logger.Info().Int("rules", count).Str("file", args[0]).Msg("timing rules seeded")
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	email, password, role := args[0], args[1], args[2]
	switch models.RoleName(role) {
	case models.RoleAdmin, models.RoleProgrammer, models.RoleViewer:
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		Role:     models.RoleName(role),
	}
	if err := database.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	logger.Info().Str("email", email).Str("role", role).Msg("user created")
	return nil
}
