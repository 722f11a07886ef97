package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"folio-go/internal/app"
	"folio-go/internal/config"
	"folio-go/internal/encryption"
	"folio-go/internal/folio"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a FolioApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "DesignsList", "SavedAdd").
func newApp(ctx context.Context, operation, parameters string) (*app.FolioApp, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewFolioApp(ctx, cfg, operation, parameters)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// withApp runs fn against a fresh FolioApp and records its error as the
// operation outcome.
func withApp(cmd *cobra.Command, operation, parameters string, fn func(context.Context, *app.FolioApp) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, operation, parameters)
	if err != nil {
		return err
	}

	err = fn(ctx, a)
	a.Fail(err)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// loginFromFlags logs in the user named by --email.
func loginFromFlags(ctx context.Context, cmd *cobra.Command, a *app.FolioApp) error {
	email, _ := cmd.Flags().GetString("email")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if email == "" {
		return fmt.Errorf("--email is required")
	}

	password, err := readSecret("Password: ", fromStdin)
	if err != nil {
		return err
	}
	ok, err := a.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid email or password")
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid design id: %q", s)
	}
	return id, nil
}

func printDesigns(designs []*folio.Design) {
	if len(designs) == 0 {
		fmt.Println("No designs found.")
		return
	}
	for _, d := range designs {
		fmt.Printf("%4d  %-30s  %s\n", d.ID, d.Title, d.Category)
	}
}

var rootCmd = &cobra.Command{
	Use:          "folio",
	Short:        "Interior design catalog",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and snapshot keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		noEncryption, _ := cmd.Flags().GetBool("no-encryption")
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])
		if noEncryption {
			cfg.Encryption = config.EncryptionConfig{Type: "none"}
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir:    %s\n", defaults["base_dir"])

		if noEncryption {
			return nil
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}
		passphrase, confirm, err := readNewSecret("Snapshot passphrase: ", fromStdin)
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("setting up snapshot keys: %w", err)
		}
		fmt.Printf("Snapshot keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Database:    %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Seed:        %s (prune=%t)\n", cfg.Seed.Mode, cfg.Seed.Prune)
		fmt.Printf("Snapshots:   %s %s\n", cfg.Snapshots.Type, cfg.Snapshots.SnapshotRoot)
		fmt.Printf("Encryption:  %s\n", cfg.Encryption.Type)
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		st, err := db.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Database at version %d\n", st.Version)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := db.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Path:    %s\n", db.Path())
		fmt.Printf("Version: %d (latest %d)\n", st.Version, st.Latest)
		if st.Dirty {
			fmt.Println("Status:  dirty")
		} else if st.Current() {
			fmt.Println("Status:  up to date")
		} else {
			fmt.Println("Status:  needs migration")
		}
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Copy the database to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.BackupTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Database copied to %s\n", args[0])
		return nil
	},
}

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the design catalog",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the catalog documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		prune, _ := cmd.Flags().GetBool("prune")

		mode, err := folio.ParseSeedMode(modeFlag)
		if err != nil {
			return err
		}

		return withApp(cmd, "CatalogSeed", modeFlag, func(ctx context.Context, a *app.FolioApp) error {
			result, stats, err := a.SeedCatalog(ctx, mode, prune)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Println("Catalog already seeded; nothing imported.")
				return nil
			}
			fmt.Printf("Inserted %d, updated %d, pruned %d design(s)\n", result.Inserted, result.Updated, result.Pruned)
			if stats.Skipped > 0 || stats.Duplicates > 0 || stats.WithoutDetails > 0 {
				fmt.Printf("Skipped %d incomplete, %d duplicate; %d without details\n", stats.Skipped, stats.Duplicates, stats.WithoutDetails)
			}
			return nil
		})
	},
}

// designs command
var designsCmd = &cobra.Command{
	Use:   "designs",
	Short: "Browse designs",
}

var designsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List designs",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		return withApp(cmd, "DesignsList", category, func(ctx context.Context, a *app.FolioApp) error {
			designs, err := a.ListDesigns(ctx, category)
			if err != nil {
				return err
			}
			printDesigns(designs)
			return nil
		})
	},
}

var designsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a design with its gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, "DesignsShow", args[0], func(ctx context.Context, a *app.FolioApp) error {
			detail, err := a.ShowDesign(ctx, id)
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("design %d not found", id)
			}

			d := detail.Design
			fmt.Printf("%s\n", d.Title)
			fmt.Printf("Category: %s\n", d.Category)
			if d.Description != "" {
				fmt.Printf("\n%s\n", d.Description)
			}
			fmt.Println("\nGallery:")
			for _, img := range detail.Gallery() {
				fmt.Printf("  %s\n", img)
			}
			if len(detail.Texts) > 0 {
				fmt.Println()
				for _, text := range detail.Texts {
					fmt.Printf("%s\n\n", text)
				}
			}
			return nil
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List design categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "Categories", "", func(ctx context.Context, a *app.FolioApp) error {
			cats, err := a.Categories(ctx)
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Println(c)
			}
			return nil
		})
	},
}

// account commands
var registerCmd = &cobra.Command{
	Use:   "register EMAIL",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		return withApp(cmd, "Register", args[0], func(ctx context.Context, a *app.FolioApp) error {
			password, confirm, err := readNewSecret("Password: ", fromStdin)
			if err != nil {
				return err
			}
			ok, err := a.Register(ctx, args[0], password, confirm)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("an account with this email already exists")
			}
			fmt.Printf("Registered %s\n", folio.NormalizeEmail(args[0]))
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Check account credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		return withApp(cmd, "Login", args[0], func(ctx context.Context, a *app.FolioApp) error {
			password, err := readSecret("Password: ", fromStdin)
			if err != nil {
				return err
			}
			ok, err := a.Login(ctx, args[0], password)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("invalid email or password")
			}
			saved, err := a.SavedDesigns()
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%d saved design(s))\n", a.Session().User(), len(saved))
			return nil
		})
	},
}

// saved command
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved designs",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved designs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "SavedList", "", func(ctx context.Context, a *app.FolioApp) error {
			if err := loginFromFlags(ctx, cmd, a); err != nil {
				return err
			}
			saved, err := a.SavedDesigns()
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Println("No saved designs.")
				return nil
			}
			for _, s := range saved {
				fmt.Printf("%4d  %-30s  %-20s  %s\n", s.ID, s.Title, s.Category, s.AddedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add ID",
	Short: "Save a design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, "SavedAdd", args[0], func(ctx context.Context, a *app.FolioApp) error {
			if err := loginFromFlags(ctx, cmd, a); err != nil {
				return err
			}
			if a.Session().IsDesignSaved(id) {
				fmt.Printf("Design %d is already saved\n", id)
				return nil
			}
			if err := a.AddSavedDesign(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Saved design %d\n", id)
			return nil
		})
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a saved design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, "SavedRemove", args[0], func(ctx context.Context, a *app.FolioApp) error {
			if err := loginFromFlags(ctx, cmd, a); err != nil {
				return err
			}
			if err := a.RemoveSavedDesign(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed design %d\n", id)
			return nil
		})
	},
}

var savedSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the saved-list snapshot written at the last logout",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		return withApp(cmd, "SavedSnapshot", email, func(ctx context.Context, a *app.FolioApp) error {
			passphrase := ""
			if a.SnapshotsEncrypted() {
				p, err := readSecret("Snapshot passphrase: ", fromStdin)
				if err != nil {
					return err
				}
				passphrase = p
			}

			snap, err := a.ReadSnapshot(email, passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot of %s taken %s\n", snap.Email, snap.TakenAt.Local().Format("2006-01-02 15:04"))
			for _, d := range snap.Designs {
				fmt.Printf("%4d  %-30s  %s\n", d.ID, d.Title, d.Category)
			}
			return nil
		})
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().Bool("no-encryption", false, "Store snapshots without encryption")
	configInitCmd.Flags().Bool("password-stdin", false, "Read the snapshot passphrase from stdin")

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	// catalog subcommands
	catalogCmd.AddCommand(catalogSeedCmd)
	catalogSeedCmd.Flags().String("mode", string(folio.SeedSync), "Seed mode: if_empty or sync")
	catalogSeedCmd.Flags().Bool("prune", false, "Delete designs missing from the catalog documents")

	// designs subcommands
	designsCmd.AddCommand(designsListCmd)
	designsCmd.AddCommand(designsShowCmd)
	designsListCmd.Flags().StringP("category", "c", "", "Only designs in this category")

	// saved subcommands
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedRemoveCmd)
	savedCmd.AddCommand(savedSnapshotCmd)
	savedCmd.PersistentFlags().StringP("email", "e", "", "Account email")
	savedCmd.PersistentFlags().Bool("password-stdin", false, "Read the password from stdin")

	registerCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(designsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(savedCmd)
}
