package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/pseudomuto/sqlsrv/pkg/utils"
)

// DefaultProfileName is the profile resolved when nothing names one.
const DefaultProfileName = "default"

// ErrProfileNotFound is returned when a named profile is missing from a loaded config file.
var ErrProfileNotFound = errors.New("profile not found")

type (
	// Env looks up an environment variable. os.LookupEnv satisfies it.
	Env func(key string) (string, bool)

	// Connection is a fully resolved set of connection settings for one server.
	Connection struct {
		// Profile is the name the settings were resolved from
		Profile string

		Server    string
		Port      int
		Database  string
		User      string
		Password  string
		Encrypt   bool
		TrustCert bool
		Timeout   time.Duration

		// DefaultSchemas is empty unless the profile configures it
		DefaultSchemas []string
	}
)

// DefaultConnection returns the settings used before any profile or environment is applied.
func DefaultConnection() Connection {
	return Connection{
		Profile:   DefaultProfileName,
		Server:    consts.DefaultServer,
		Port:      consts.DefaultPort,
		Database:  consts.DefaultDatabase,
		Encrypt:   true,
		TrustCert: true,
		Timeout:   consts.DefaultTimeout,
	}
}

// Address returns host:port.
func (c Connection) Address() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// String describes the connection without its password, for logs.
func (c Connection) String() string {
	user := c.User
	if user == "" {
		user = "(integrated)"
	}
	return fmt.Sprintf("%s@%s/%s", user, c.Address(), c.Database)
}

// ProfileName picks the profile to use: the explicit name if given, then
// SQL_SERVER_PROFILE, then the config's default profile, then "default".
func (c *Config) ProfileName(explicit string, env Env) string {
	if explicit != "" {
		return explicit
	}
	if name, ok := lookupAny(env, "SQL_SERVER_PROFILE", "SQLSERVER_PROFILE"); ok {
		return name
	}
	if c != nil && c.DefaultProfile != "" {
		return c.DefaultProfile
	}
	return DefaultProfileName
}

// Resolve builds the connection for the named profile.
//
// Settings are layered: built-in defaults, then the profile, then environment
// overrides (DATABASE_URL first, then the individual SQL_* variables). A name
// that isn't in a loaded config file is an error unless it's the implicit
// "default" profile; without a config file any name resolves from defaults and
// the environment alone.
func (c *Config) Resolve(name string, env Env) (Connection, error) {
	conn := DefaultConnection()
	conn.Profile = name

	profile, ok := c.Profile(name)
	if !ok && c != nil && c.Path != "" && name != DefaultProfileName {
		return Connection{}, apperr.Wrap(apperr.Config, errors.Wrapf(ErrProfileNotFound, "%q in %s", name, c.Path), "")
	}

	if ok {
		if err := applyProfile(&conn, profile, env); err != nil {
			return Connection{}, err
		}
	}

	if err := applyEnv(&conn, env); err != nil {
		return Connection{}, err
	}

	return conn, nil
}

func applyProfile(conn *Connection, p Profile, env Env) error {
	if p.Server != "" {
		conn.Server = p.Server
	}
	if p.Port != 0 {
		conn.Port = p.Port
	}
	if p.Database != "" {
		conn.Database = p.Database
	}
	if p.User != "" {
		conn.User = p.User
	}
	if p.Encrypt != nil {
		conn.Encrypt = *p.Encrypt
	}
	if p.TrustCert != nil {
		conn.TrustCert = *p.TrustCert
	}
	if p.Timeout > 0 {
		conn.Timeout = time.Duration(p.Timeout) * time.Millisecond
	}
	if len(p.DefaultSchemas) > 0 {
		conn.DefaultSchemas = append([]string(nil), p.DefaultSchemas...)
	}

	switch {
	case p.Password != "":
		conn.Password = p.Password
	case p.PasswordEnv != "":
		if v, ok := lookup(env, p.PasswordEnv); ok {
			conn.Password = v
		}
	case p.PasswordKeyring != "":
		pw, err := keyringPassword(p.PasswordKeyring, conn.User)
		if err != nil {
			return apperr.Wrapf(apperr.Config, err, "profile %s", conn.Profile)
		}
		conn.Password = pw
	}

	return nil
}

func applyEnv(conn *Connection, env Env) error {
	if raw, ok := lookupAny(env, "DATABASE_URL", "DB_URL", "SQLSERVER_URL"); ok {
		parsed, err := parseURL(raw)
		if err != nil {
			return errors.Wrap(err, "invalid DATABASE_URL")
		}
		parsed.mergeInto(conn)
	}

	if v, ok := lookupAny(env, "SQL_SERVER", "SQLSERVER_HOST", "DB_HOST"); ok {
		conn.Server = v
	}
	if v, ok := lookupAny(env, "SQL_PORT", "SQLSERVER_PORT", "DB_PORT"); ok {
		port, err := parsePort(v)
		if err != nil {
			return errors.Wrap(err, "invalid SQL_PORT")
		}
		conn.Port = port
	}
	if v, ok := lookupAny(env, "SQL_DATABASE", "SQLSERVER_DB", "DATABASE", "DB_NAME"); ok {
		conn.Database = v
	}
	if v, ok := lookupAny(env, "SQL_USER", "SQLSERVER_USER", "DB_USER"); ok {
		conn.User = v
	}
	if v, ok := lookupAny(env, "SQL_PASSWORD", "SQLSERVER_PASSWORD", "DB_PASSWORD"); ok {
		conn.Password = v
	}
	if v, ok := lookup(env, "SQL_ENCRYPT"); ok {
		if b, valid := utils.ParseBool(v); valid {
			conn.Encrypt = b
		}
	}
	if v, ok := lookup(env, "SQL_TRUST_SERVER_CERTIFICATE"); ok {
		if b, valid := utils.ParseBool(v); valid {
			conn.TrustCert = b
		}
	}
	if v, ok := lookupAny(env, "SQL_CONNECT_TIMEOUT", "DB_CONNECT_TIMEOUT"); ok {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			return apperr.Newf(apperr.Config, "invalid SQL_CONNECT_TIMEOUT %q", v)
		}
		conn.Timeout = time.Duration(ms) * time.Millisecond
	}

	return nil
}

func lookup(env Env, key string) (string, bool) {
	if env == nil {
		return "", false
	}
	v, ok := env(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func lookupAny(env Env, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := lookup(env, k); ok {
			return v, true
		}
	}
	return "", false
}

// MapEnv adapts a map to Env.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
