package cli

import (
	"context"
	"fmt"

	"github.com/buzunser/otagen/internal/config"
	"github.com/buzunser/otagen/internal/fetcher"
	"github.com/buzunser/otagen/internal/generator"
	"github.com/buzunser/otagen/internal/logging"
	"github.com/buzunser/otagen/internal/models"
	"github.com/buzunser/otagen/internal/signer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var gc models.GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate [zip_url]",
		Short: "Generate the OTA record for a flashable zip",
		Long: `Parses the archive filename, downloads the archive (or reads it from
--local-file), computes its MD5 and size and writes the device record.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				gc.ZipURL = args[0]
			}
			gc.ConfigFile, _ = cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			if err := validateConfig(&gc); err != nil {
				return err
			}

			cfg, err := config.Load(gc.ConfigFile)
			if err != nil {
				return err
			}

			closer, err := logging.Setup(cfg.Log, verbose)
			if err != nil {
				return models.NewError(models.ErrInvalidConfig, gc.ConfigFile, err)
			}
			defer closer.Close()

			logrus.WithFields(logrus.Fields{
				"url":        gc.ZipURL,
				"local_file": gc.LocalFile,
				"pre":        gc.PreRelease,
				"config":     gc.ConfigFile,
			}).Debug("Configuration")

			return runGeneration(cmd.Context(), afero.NewOsFs(), cfg, &gc)
		},
	}

	cmd.Flags().StringVar(&gc.LocalFile, "local-file", "", "Path to local version of flashable zip (else will be downloaded)")
	cmd.Flags().BoolVar(&gc.PreRelease, "pre", false, "This is a pre-release")
	cmd.Flags().StringVarP(&gc.OutputDir, "output-dir", "o", "", "Output directory (default from config, else current directory)")
	cmd.Flags().StringVar(&gc.OSName, "os-name", "", "Expected OS tag in the filename (default from config)")
	cmd.Flags().BoolVar(&gc.Strict, "strict", false, "Fail when the archive is not a flashable zip")

	// Signing
	cmd.Flags().StringVarP(&gc.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key used to sign the record")
	cmd.Flags().StringVarP(&gc.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")
	cmd.Flags().BoolVar(&gc.ExportKey, "export-key", false, "Also write the signing public key to <device>.pub")

	return cmd
}

func validateConfig(gc *models.GenerateConfig) error {
	if gc.ZipURL == "" && gc.LocalFile == "" {
		return &models.OTAGenError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("a zip URL or --local-file is required"),
		}
	}

	if gc.GPGPassphrase != "" && gc.GPGKeyPath == "" {
		return &models.OTAGenError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("--gpg-passphrase requires --gpg-key"),
		}
	}

	if gc.ExportKey && gc.GPGKeyPath == "" {
		return &models.OTAGenError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("--export-key requires --gpg-key"),
		}
	}

	return nil
}

func runGeneration(ctx context.Context, fs afero.Fs, cfg *config.Config, gc *models.GenerateConfig) error {
	var s signer.Signer
	if gc.GPGKeyPath != "" {
		gpgSigner, err := signer.NewGPGSigner(fs, gc.GPGKeyPath, gc.GPGPassphrase)
		if err != nil {
			return &models.OTAGenError{
				Type: models.ErrSigning,
				File: gc.GPGKeyPath,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		s = gpgSigner
		logrus.Info("GPG signer initialized")
	}

	progress := fetcher.NewLogProgress(logrus.WithField("component", "download"))
	f := fetcher.New(fs, gc.LocalFile, progress)

	result, err := generator.New(fs, cfg, f, s).Generate(ctx, gc)
	if err != nil {
		return err
	}

	logrus.Infof("Output: %s", result.Path)
	if result.SignaturePath != "" {
		logrus.Infof("Signature: %s", result.SignaturePath)
	}
	if result.PublicKeyPath != "" {
		logrus.Infof("Public key: %s", result.PublicKeyPath)
	}
	logrus.Infof("Please now update %s_changelog.txt!", result.Build.Device)

	return nil
}
