package cli

import (
	"fmt"
	"os"

	"github.com/martijn/clientreg/internal/core/repository"
	"github.com/martijn/clientreg/internal/core/service"
	"github.com/martijn/clientreg/internal/core/validation"
	"github.com/martijn/clientreg/internal/infrastructure/sqlite"
	"github.com/martijn/clientreg/internal/logging"
	"github.com/martijn/clientreg/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clientreg",
	Short: "clientreg - client registry API",
	Long: `clientreg manages client records (name, age, state code) for the mobile front end.

It provides:
- A JSON REST API under /clientes
- Field-name tolerant validation shared by the API and this CLI
- SQLite storage with embedded migrations
- Administrative commands for inspecting and editing records`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return logging.Initialize(logging.Config{
			Level:            cfg.LogLevel,
			IsDev:            cfg.IsDevMode(),
			LogDir:           cfg.LogDir,
			AlsoLogToConsole: cfg.LogToConsole,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/clientreg/config.yml)")
}

// Services holds all initialized services
type Services struct {
	DB            *sqlite.DB
	ClientRepo    repository.ClientRepository
	ClientService *service.ClientService
}

// initServices opens storage and builds the service graph from cfg
func initServices() (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	clientRepo := sqlite.NewClientRepository(db)
	validator := validation.New(validation.Options{
		Strictness:    validation.Strictness(cfg.Validation.Strictness),
		NameMinLength: cfg.Validation.NameMinLength,
	})

	return &Services{
		DB:            db,
		ClientRepo:    clientRepo,
		ClientService: service.NewClientService(clientRepo, validator),
	}, nil
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close database: %v\n", err)
		}
	}
}
