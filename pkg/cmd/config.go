package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pseudomuto/sqlsrv/pkg/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type configParams struct {
	fx.In

	Loader *config.Loader
}

// resolvedConfig is the JSON shape printed by `sqlsrv config --json`. The password
// is never included.
type resolvedConfig struct {
	ConfigPath     string   `json:"configPath"`
	Profile        string   `json:"profileName"`
	Server         string   `json:"server"`
	Port           int      `json:"port"`
	Database       string   `json:"database"`
	User           string   `json:"user,omitempty"`
	Encrypt        bool     `json:"encrypt"`
	TrustCert      bool     `json:"trustCert"`
	TimeoutMs      int64    `json:"timeoutMs"`
	DefaultSchemas []string `json:"defaultSchemas"`
}

// configCmd creates the config command, which prints the connection settings a
// profile resolves to after the config file and environment are applied.
//
// Example usage:
//
//	sqlsrv config
//	sqlsrv --profile prod config --json
func configCmd(p configParams) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the resolved connection settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the settings as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := p.Loader.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			name := cfg.ProfileName(cmd.String("profile"), p.Loader.Env)
			conn, err := cfg.Resolve(name, p.Loader.Env)
			if err != nil {
				return err
			}

			rc := resolvedConfig{
				ConfigPath:     cfg.Path,
				Profile:        conn.Profile,
				Server:         conn.Server,
				Port:           conn.Port,
				Database:       conn.Database,
				User:           conn.User,
				Encrypt:        conn.Encrypt,
				TrustCert:      conn.TrustCert,
				TimeoutMs:      conn.Timeout.Milliseconds(),
				DefaultSchemas: conn.DefaultSchemas,
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(cmd.Root().Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(rc)
			}

			return writeConfigTable(cmd.Root().Writer, rc)
		},
	}
}

func writeConfigTable(w io.Writer, rc resolvedConfig) error {
	path := rc.ConfigPath
	if path == "" {
		path = "(none)"
	}

	rows := [][2]string{
		{"configPath", path},
		{"profileName", rc.Profile},
		{"server", rc.Server},
		{"port", strconv.Itoa(rc.Port)},
		{"database", rc.Database},
	}
	if rc.User != "" {
		rows = append(rows, [2]string{"user", rc.User})
	}
	rows = append(rows,
		[2]string{"encrypt", strconv.FormatBool(rc.Encrypt)},
		[2]string{"trustCert", strconv.FormatBool(rc.TrustCert)},
		[2]string{"timeoutMs", strconv.FormatInt(rc.TimeoutMs, 10)},
		[2]string{"defaultSchemas", strings.Join(rc.DefaultSchemas, ",")},
	)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
