package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
)

const redacted = "********"

func newConfigCmd(env *Env) *cobra.Command {
	config := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	config.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := yaml.Marshal(maskSecrets(cfg))
			if err != nil {
				return err
			}
			_, err = env.Out.Write(out)
			return err
		},
	})
	return config
}

func maskSecrets(cfg bootstrap.Config) bootstrap.Config {
	for _, secret := range []*string{&cfg.JWTSecret, &cfg.AdminPassword, &cfg.RazorpayKeySecret, &cfg.RedisPassword, &cfg.PostgresDSN, &cfg.MongoURI} {
		if *secret != "" {
			*secret = redacted
		}
	}
	return cfg
}
