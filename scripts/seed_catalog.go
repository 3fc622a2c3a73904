package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CatalogConfig is the YAML shape for seeding a fresh database with demo
// users and their items.
type CatalogConfig struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Items []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   bool   `yaml:"available"`
		} `yaml:"items"`
	} `yaml:"users"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "configs/catalog.yaml", "path to catalog.yaml")
		dbPath      = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var cfg CatalogConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := 0
	items := 0
	for _, u := range cfg.Users {
		taken, err := db.EmailTaken(ctx, u.Email, 0)
		if err != nil {
			return fmt.Errorf("check email %s: %w", u.Email, err)
		}
		if taken {
			logger.Warn().Str("email", u.Email).Msg("user already exists, skipping")
			continue
		}

		user := &models.User{Name: u.Name, Email: u.Email}
		if err := db.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
		users++

		for _, it := range u.Items {
			item := &models.Item{
				Name:        it.Name,
				Description: it.Description,
				Available:   it.Available,
				OwnerID:     user.ID,
			}
			if err := db.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", it.Name, err)
			}
			items++
		}
	}

	logger.Info().Int("users", users).Int("items", items).Msg("catalog seeded")
	return nil
}
