package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foliokit/folioctl/internal/config"
	"github.com/foliokit/folioctl/internal/transport"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage folioctl contexts",
	}

	cmd.AddCommand(newConfigViewCmd())
	cmd.AddCommand(newConfigCurrentContextCmd())
	cmd.AddCommand(newConfigUseContextCmd())
	cmd.AddCommand(newConfigSetContextCmd())

	return cmd
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(&rt.Config)
			if err != nil {
				return fmt.Errorf("marshal config output: %w", err)
			}
			if len(out) == 0 || out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newConfigCurrentContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Print the active context name",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			ctx, err := config.ResolveContext(rt.Config, rt.ContextOverride)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.Name)
			return nil
		},
	}
}

func newConfigUseContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context <name>",
		Short: "Switch current-context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}

			ctx, err := config.ResolveContext(rt.Config, args[0])
			if err != nil {
				return err
			}

			rt.Config.CurrentContext = strings.TrimSpace(ctx.Name)
			if err := config.Save(rt.ConfigPath, rt.Config); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q\n", ctx.Name)
			return nil
		},
	}
}

func newConfigSetContextCmd() *cobra.Command {
	var server string
	var port int
	var token string

	cmd := &cobra.Command{
		Use:   "set-context <name>",
		Short: "Create or update a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("context name is required")
			}
			if strings.TrimSpace(server) == "" {
				return fmt.Errorf("--server is required")
			}
			if server != "local" && !strings.HasPrefix(server, "http://") {
				if _, err := transport.ParseServerURL(server); err != nil {
					return err
				}
			}

			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(configPath)
			if err != nil {
				return err
			}
			// A missing file is fine for the first context.
			cfg, err := config.LoadFromPath(path)
			if err != nil && !strings.Contains(err.Error(), "config file not found") {
				return err
			}

			entry := config.Context{Name: name, Server: server, Port: port, Token: token}
			updated := false
			for i, ctx := range cfg.Contexts {
				if strings.TrimSpace(ctx.Name) == name {
					cfg.Contexts[i] = entry
					updated = true
					break
				}
			}
			if !updated {
				cfg.Contexts = append(cfg.Contexts, entry)
			}
			if strings.TrimSpace(cfg.CurrentContext) == "" {
				cfg.CurrentContext = name
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			verb := "Created"
			if updated {
				verb = "Updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s context %q in %s\n", verb, name, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Target server: \"local\" or ssh://user@host[:port]")
	cmd.Flags().IntVar(&port, "port", 0, "foliod port on the target (default 9400)")
	cmd.Flags().StringVar(&token, "token", "", "API token for the target foliod")

	return cmd
}
