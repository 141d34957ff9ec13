package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Profile holds the connection settings for one named server.
	//
	// Every field is optional. Unset fields fall back to the built-in defaults and
	// can be overridden from the environment when the profile is resolved.
	Profile struct {
		// Server is the host name or address of the SQL Server instance
		Server string `yaml:"server,omitempty"`

		// Port is the TCP port of the instance (default 1433)
		Port int `yaml:"port,omitempty"`

		// Database is the database to connect to (default master)
		Database string `yaml:"database,omitempty"`

		// User is the SQL login name
		User string `yaml:"user,omitempty"`

		// Password is a literal password. Prefer PasswordEnv or PasswordKeyring.
		Password string `yaml:"password,omitempty"`

		// PasswordEnv names an environment variable holding the password
		PasswordEnv string `yaml:"passwordEnv,omitempty"`

		// PasswordKeyring is a service[/user] pair looked up in the OS keyring.
		// When the user part is omitted, User is used.
		PasswordKeyring string `yaml:"passwordKeyring,omitempty"`

		// Encrypt requests TLS for the connection (default true)
		Encrypt *bool `yaml:"encrypt,omitempty"`

		// TrustCert skips server certificate validation (default true)
		TrustCert *bool `yaml:"trustCert,omitempty"`

		// Timeout is the connect timeout in milliseconds (default 30000)
		Timeout int64 `yaml:"timeout,omitempty"`

		// DefaultSchemas are compared when no schema list is given on the command line
		DefaultSchemas []string `yaml:"defaultSchemas,omitempty"`
	}

	// Config is the contents of a sqlsrv configuration file.
	Config struct {
		// Path is where the configuration was loaded from, if anywhere
		Path string `yaml:"-"`

		// DefaultProfile is used when neither --profile nor SQL_SERVER_PROFILE is set
		DefaultProfile string `yaml:"defaultProfile,omitempty"`

		// Profiles maps profile names to their connection settings
		Profiles map[string]Profile `yaml:"profiles,omitempty"`
	}
)

// LoadConfig parses a configuration from the provided io.Reader.
//
// Example:
//
//	yamlData := `
//	defaultProfile: staging
//	profiles:
//	  staging:
//	    server: db.staging.internal
//	    user: deploy
//	    passwordEnv: STAGING_DB_PASSWORD
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Default profile: %s\n", cfg.DefaultProfile)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	cfg.Path = path
	return cfg, nil
}

// Profile returns the named profile and whether it exists. It's safe to call on a nil Config.
func (c *Config) Profile(name string) (Profile, bool) {
	if c == nil {
		return Profile{}, false
	}
	p, ok := c.Profiles[name]
	return p, ok
}
