package cmd

import (
	"os"
	"time"

	"github.com/go-extras/cobraflags"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/kubev2v/datatables/internal/config"
)

var _ = Describe("Run Command", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults()
	})

	Describe("Flag Parsing", func() {
		It("should parse all server flags", func() {
			cmd := NewRunCommand(cfg)

			err := cmd.ParseFlags([]string{
				"--server-http-port", "9000",
				"--server-mode", "prod",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Server.HTTPPort).To(Equal(9000))
			Expect(cfg.Server.ServerMode).To(Equal("prod"))
		})

		It("should parse all database flags", func() {
			cmd := NewRunCommand(cfg)

			err := cmd.ParseFlags([]string{
				"--db-driver", "sqlite3",
				"--db-dsn", "/var/data/grids.db",
				"--seed",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Database.Driver).To(Equal("sqlite3"))
			Expect(cfg.Database.DSN).To(Equal("/var/data/grids.db"))
			Expect(cfg.Database.Seed).To(BeTrue())
		})

		It("should parse all datatable flags", func() {
			cmd := NewRunCommand(cfg)

			err := cmd.ParseFlags([]string{
				"--default-page-length", "25",
				"--max-page-length", "500",
				"--allow-unbounded=false",
				"--protocol", "legacy",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.DataTable.DefaultLength).To(Equal(25))
			Expect(cfg.DataTable.MaxLength).To(Equal(500))
			Expect(cfg.DataTable.AllowUnbounded).To(BeFalse())
			Expect(cfg.DataTable.Protocol).To(Equal("legacy"))
		})

		It("should parse stats and log flags", func() {
			cmd := NewRunCommand(cfg)

			err := cmd.ParseFlags([]string{
				"--stats-interval", "1m",
				"--stats-workers", "4",
				"--log-level", "debug",
				"--log-format", "json",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Stats.Interval).To(Equal(time.Minute))
			Expect(cfg.Stats.Workers).To(Equal(4))
			Expect(cfg.Log.Level).To(Equal("debug"))
			Expect(cfg.Log.Format).To(Equal("json"))
		})

		It("should use default values when flags are not provided", func() {
			cmd := NewRunCommand(cfg)
			err := cmd.ParseFlags([]string{})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Server.HTTPPort).To(Equal(8000))
			Expect(cfg.Server.ServerMode).To(Equal("dev"))
			Expect(cfg.Database.Driver).To(Equal("duckdb"))
			Expect(cfg.Database.DSN).To(Equal(":memory:"))
			Expect(cfg.Database.Seed).To(BeFalse())
			Expect(cfg.DataTable.DefaultLength).To(Equal(10))
			Expect(cfg.DataTable.MaxLength).To(Equal(1000))
			Expect(cfg.DataTable.AllowUnbounded).To(BeTrue())
			Expect(cfg.DataTable.Protocol).To(Equal("auto"))
			Expect(cfg.Stats.Interval).To(Equal(30 * time.Second))
			Expect(cfg.Log.Level).To(Equal("info"))
		})
	})

	Describe("Environment Variable Binding", func() {
		AfterEach(func() {
			os.Unsetenv("DATATABLES_SERVER_HTTP_PORT")
			os.Unsetenv("DATATABLES_SERVER_MODE")
			os.Unsetenv("DATATABLES_DB_DRIVER")
			os.Unsetenv("DATATABLES_DB_DSN")
			os.Unsetenv("DATATABLES_MAX_PAGE_LENGTH")
			os.Unsetenv("DATATABLES_PROTOCOL")
		})

		It("should read server configuration from environment variables", func() {
			os.Setenv("DATATABLES_SERVER_HTTP_PORT", "9001")
			os.Setenv("DATATABLES_SERVER_MODE", "prod")

			cfg = config.NewConfigurationWithOptionsAndDefaults()
			cmd := NewRunCommand(cfg)
			err := cmd.ParseFlags([]string{})
			Expect(err).ToNot(HaveOccurred())

			// Configure viper and trigger environment variable binding
			setupViperForEnvVars(envPrefix)
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)

			Expect(cfg.Server.HTTPPort).To(Equal(9001))
			Expect(cfg.Server.ServerMode).To(Equal("prod"))
		})

		It("should read database and datatable configuration from environment variables", func() {
			os.Setenv("DATATABLES_DB_DRIVER", "pgx")
			os.Setenv("DATATABLES_DB_DSN", "postgres://localhost/grids")
			os.Setenv("DATATABLES_MAX_PAGE_LENGTH", "200")
			os.Setenv("DATATABLES_PROTOCOL", "modern")

			cfg = config.NewConfigurationWithOptionsAndDefaults()
			cmd := NewRunCommand(cfg)
			err := cmd.ParseFlags([]string{})
			Expect(err).ToNot(HaveOccurred())

			setupViperForEnvVars(envPrefix)
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)

			Expect(cfg.Database.Driver).To(Equal("pgx"))
			Expect(cfg.Database.DSN).To(Equal("postgres://localhost/grids"))
			Expect(cfg.DataTable.MaxLength).To(Equal(200))
			Expect(cfg.DataTable.Protocol).To(Equal("modern"))
		})

		It("should prefer command line flags over environment variables", func() {
			os.Setenv("DATATABLES_SERVER_HTTP_PORT", "9001")
			os.Setenv("DATATABLES_DB_DRIVER", "pgx")

			cfg = config.NewConfigurationWithOptionsAndDefaults()
			cmd := NewRunCommand(cfg)
			err := cmd.ParseFlags([]string{
				"--server-http-port", "8080",
				"--db-driver", "sqlite3",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Server.HTTPPort).To(Equal(8080))
			Expect(cfg.Database.Driver).To(Equal("sqlite3"))
		})
	})

	Describe("Configuration Validation", func() {
		It("should pass validation with the default configuration", func() {
			Expect(validateConfiguration(cfg)).To(Succeed())
		})

		Context("http-port validation", func() {
			It("should fail with port 0", func() {
				cfg.Server.HTTPPort = 0
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid server-http-port"))
			})

			It("should fail with port > 65535", func() {
				cfg.Server.HTTPPort = 70000
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid server-http-port"))
			})

			It("should accept port 65535", func() {
				cfg.Server.HTTPPort = 65535
				Expect(validateConfiguration(cfg)).To(Succeed())
			})
		})

		Context("server-mode validation", func() {
			It("should accept 'prod' server mode", func() {
				cfg.Server.ServerMode = "prod"
				Expect(validateConfiguration(cfg)).To(Succeed())
			})

			It("should fail with invalid server mode", func() {
				cfg.Server.ServerMode = "invalid"
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid server-mode"))
			})
		})

		Context("database validation", func() {
			It("should accept every supported driver", func() {
				for _, driver := range []string{"duckdb", "sqlite3", "pgx"} {
					cfg.Database.Driver = driver
					Expect(validateConfiguration(cfg)).To(Succeed())
				}
			})

			It("should fail with an unknown driver", func() {
				cfg.Database.Driver = "oracle"
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid db-driver: oracle"))
			})

			It("should fail with an empty dsn", func() {
				cfg.Database.DSN = ""
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("db-dsn cannot be empty"))
			})
		})

		Context("page length validation", func() {
			It("should fail with a zero max page length", func() {
				cfg.DataTable.MaxLength = 0
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid max-page-length"))
			})

			It("should fail when the default exceeds the max", func() {
				cfg.DataTable.DefaultLength = 50
				cfg.DataTable.MaxLength = 20
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("default-page-length 50 exceeds max-page-length 20"))
			})
		})

		Context("protocol validation", func() {
			It("should fail with an unknown protocol", func() {
				cfg.DataTable.Protocol = "v3"
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid protocol"))
			})
		})

		Context("stats validation", func() {
			It("should fail with zero workers", func() {
				cfg.Stats.Workers = 0
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid stats-workers"))
			})

			It("should fail with a negative interval", func() {
				cfg.Stats.Interval = -time.Second
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid stats-interval"))
			})
		})

		Context("log validation", func() {
			It("should fail with an unknown log level", func() {
				cfg.Log.Level = "trace"
				err := validateConfiguration(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid log-level"))
			})
		})
	})

	Describe("Logger", func() {
		It("should build a json logger at the configured level", func() {
			logger, err := newLogger(config.Log{Level: "warn", Format: "json"})
			Expect(err).ToNot(HaveOccurred())
			Expect(logger.Core().Enabled(-1)).To(BeFalse())
			Expect(logger.Core().Enabled(1)).To(BeTrue())
		})

		It("should reject an unknown level", func() {
			_, err := newLogger(config.Log{Level: "loud", Format: "console"})
			Expect(err).To(HaveOccurred())
		})
	})
})
