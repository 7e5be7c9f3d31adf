package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/volley-analyst/config"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tokengen",
		Usage: "mint an operator API bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Required: true, Usage: "who the token is for"},
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Value: string(jwt.RoleOperator), Usage: "viewer, operator or admin"},
			&cli.StringFlag{Name: "team", Usage: "team the holder scores for"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to jwt.default_ttl)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token, err := mint(cfg.JWT, c.String("subject"), c.String("team"), jwt.Role(c.String("role")), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func mint(cfg config.JWTConfig, subject, team string, role jwt.Role, ttl time.Duration) (string, error) {
	svc := jwt.NewService(cfg.Secret, cfg.DefaultTTL, cfg.Issuer)
	return svc.GenerateToken(subject, team, role, ttl)
}
