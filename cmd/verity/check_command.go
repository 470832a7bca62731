package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"verity/internal/config"
	"verity/internal/media/transcode"
	"verity/internal/pipeline"
	"verity/internal/services"
	"verity/internal/services/speech"
	"verity/internal/services/verdict"
	"verity/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var userFlag string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Fact-check a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			kind, err := resolveKind(kindFlag, args[0])
			if err != nil {
				return err
			}

			// Remote services are constructed first so missing credentials
			// fail before any transcoding work is spent.
			verifier, err := verdict.NewClient(verdict.Config{
				APIKey:         cfg.Verdict.APIKey,
				BaseURL:        cfg.Verdict.BaseURL,
				Model:          cfg.Verdict.Model,
				TimeoutSeconds: cfg.Verdict.TimeoutSeconds,
			})
			if err != nil {
				return err
			}
			transcoder := transcode.New(cfg.FFmpegBinary(), cfg.Paths.ScratchDir)
			transcriber, err := speech.NewService(speech.Config{
				APIKey:         cfg.Speech.APIKey,
				BaseURL:        cfg.Speech.BaseURL,
				Language:       cfg.Speech.Language,
				FFprobeBinary:  cfg.FFprobeBinary(),
				TimeoutSeconds: cfg.Speech.TimeoutSeconds,
			}, transcoder)
			if err != nil && kind != store.KindImage {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				user, err := resolveUser(cmd, st, userFlag)
				if err != nil {
					return err
				}

				runner := pipeline.NewRunner(st, transcoder, transcriber, verifier, logger, cfg.Verdict.MaxSentences)
				record, err := runner.Run(cmd.Context(), pipeline.Request{
					FilePath: args[0],
					Kind:     kind,
					UserID:   user.ID,
				})
				if err != nil {
					return err
				}
				printFactCheck(cmd, record, nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Media kind: video, audio, or image (inferred from extension when omitted)")
	cmd.Flags().StringVar(&userFlag, "user", "", "Email of the requesting user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// resolveKind honors an explicit --kind and otherwise infers from the file
// extension.
func resolveKind(flag, path string) (store.MediaKind, error) {
	if strings.TrimSpace(flag) != "" {
		return store.ParseMediaKind(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv", ".webm", ".avi":
		return store.KindVideo, nil
	case ".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac":
		return store.KindAudio, nil
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return store.KindImage, nil
	default:
		return "", fmt.Errorf("cannot infer media kind from %q; pass --kind", filepath.Base(path))
	}
}

func resolveUser(cmd *cobra.Command, st *store.Store, email string) (*store.User, error) {
	user, err := st.GetUserByEmail(cmd.Context(), email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, services.Wrap(services.ErrNotFound, "cli", "resolve user", fmt.Sprintf("no account for %s (create one with 'verity user add')", email), nil)
	}
	return user, nil
}
