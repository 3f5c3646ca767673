package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/client"
	"github.com/foliokit/folioctl/internal/config"
	"github.com/foliokit/folioctl/internal/transport"
)

const defaultFoliodPort = 9400

// commandRuntime carries the loaded config and the resolved remote target
// for commands that talk to foliod.
type commandRuntime struct {
	Config          config.Config
	ConfigPath      string
	ContextOverride string
	ResolvedContext config.ContextInfo
	Transport       transport.Transport
}

func (rt *commandRuntime) Close() error {
	if rt == nil || rt.Transport == nil {
		return nil
	}
	return rt.Transport.Close()
}

func runtimeFromCommand(cmd *cobra.Command) (*commandRuntime, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	contextName, err := cmd.Flags().GetString("context")
	if err != nil {
		return nil, err
	}

	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &commandRuntime{
		Config:          cfg,
		ConfigPath:      path,
		ContextOverride: contextName,
	}, nil
}

// runtimeAndClientFromCommand resolves the active context and opens its
// transport. The caller owns rt.Close.
func runtimeAndClientFromCommand(cmd *cobra.Command) (*commandRuntime, *client.APIClient, error) {
	rt, err := runtimeFromCommand(cmd)
	if err != nil {
		return nil, nil, err
	}

	info, err := config.ResolveContext(rt.Config, rt.ContextOverride)
	if err != nil {
		return nil, nil, err
	}
	rt.ResolvedContext = info

	tr, err := openTransport(cmd.Context(), info)
	if err != nil {
		return nil, nil, err
	}
	rt.Transport = tr

	return rt, client.NewWithAuth(tr, info.Token), nil
}

func openTransport(ctx context.Context, info config.ContextInfo) (transport.Transport, error) {
	port := info.RemotePort
	if port == 0 {
		port = defaultFoliodPort
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	if info.Local() {
		if host := strings.TrimPrefix(info.Server, "http://"); host != info.Server && host != "" {
			addr = host
		}
		return transport.NewLocal(addr), nil
	}
	return transport.NewSSHTransport(ctx, transport.SSHConfig{
		ServerURL:  info.Server,
		RemoteAddr: addr,
	})
}
