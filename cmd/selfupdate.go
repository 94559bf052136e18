package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/MakeNowJust/heredoc"
	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
)

var (
	updateToken     string
	updateCheckOnly bool
)

func newSelfUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "self-update",
		Short: "Update fq-weapp-ui-mcp to the latest release",
		Long: heredoc.Doc(`
			Checks the GitLab releases of the project configured under
			update.repository and replaces the running binary with the newest one.

			Release downloads need the same GitLab token as the MCP tools: pass
			--token or set GITLAB_PERSONAL_ACCESS_TOKEN.
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runSelfUpdate,
	}
	c.Flags().StringVar(&updateToken, "token", "", "GitLab token (default: from the environment)")
	c.Flags().BoolVar(&updateCheckOnly, "check", false, "Only report whether an update is available")
	return c
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolver := credential.NewResolver(credential.NewSession(), credential.WithEnvVar(cfg.GitLab.TokenEnv))
	token, _, ok := resolver.Resolve(updateToken)
	if !ok {
		return fmt.Errorf("a GitLab token is required: pass --token or set %s", resolver.EnvVar())
	}

	source, err := selfupdate.NewGitLabSource(selfupdate.GitLabConfig{
		BaseURL:  cfg.GitLab.BaseURL,
		APIToken: token,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitLab release source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(cfg.Update.Repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release of %s: %w", cfg.Update.Repository, err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if err := checkCurrentVersion(version); err != nil {
		logger.Warning("Current build is not a release; latest release is %s", latest.Version())
		return err
	}
	if latest.LessOrEqual(version) {
		logger.Success("Already up to date (%s)", version)
		return nil
	}
	if updateCheckOnly {
		logger.Info("Update available: %s -> %s", version, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info("Updating %s -> %s", version, latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	logger.Success("Updated to %s", latest.Version())
	return nil
}

// checkCurrentVersion rejects builds whose version cannot be compared
// against a release tag.
func checkCurrentVersion(v string) error {
	if v == "dev" {
		return errors.New("refusing to replace a development build")
	}
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("current version %q is not a semantic version: %w", v, err)
	}
	return nil
}
