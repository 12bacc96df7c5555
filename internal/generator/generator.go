package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/buzunser/otagen/internal/archive"
	"github.com/buzunser/otagen/internal/config"
	"github.com/buzunser/otagen/internal/fetcher"
	"github.com/buzunser/otagen/internal/models"
	"github.com/buzunser/otagen/internal/parser"
	"github.com/buzunser/otagen/internal/signer"
	"github.com/buzunser/otagen/internal/utils"
	"github.com/buzunser/otagen/internal/writer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Result describes the files produced by one run
type Result struct {
	Build         *models.BuildInfo
	Record        *models.DeviceRecord
	Path          string
	SignaturePath string
	PublicKeyPath string
}

// Generator turns one archive into a device record
type Generator struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	signer  signer.Signer
	writer  *writer.Writer
	logger  *logrus.Entry
}

// New creates a generator writing to fs. s may be nil for unsigned records.
func New(fs afero.Fs, cfg *config.Config, f fetcher.Fetcher, s signer.Signer) *Generator {
	return &Generator{
		cfg:     cfg,
		fetcher: f,
		signer:  s,
		writer:  writer.New(fs),
		logger:  logrus.WithField("component", "generator"),
	}
}

// Generate validates the archive name, fetches and hashes the archive and
// writes the record. Nothing is written unless every step succeeds.
func (g *Generator) Generate(ctx context.Context, gc *models.GenerateConfig) (*Result, error) {
	osName := gc.OSName
	if osName == "" {
		osName = g.cfg.OSName
	}

	g.logger.Info("Parsing filename...")
	var build *models.BuildInfo
	var err error
	if gc.ZipURL != "" {
		build, err = parser.ParseFilename(gc.ZipURL, osName)
	} else {
		build, err = parser.ParseLocalFilename(gc.LocalFile, osName)
	}
	if err != nil {
		return nil, err
	}
	g.logger.WithFields(logrus.Fields{
		"device":     build.Device,
		"version":    build.Version,
		"build_type": build.BuildType,
	}).Debug("Filename validated")

	g.logger.Info("Generating UNIX timestamp...")
	timestamp, err := parser.BuildTimestamp(build.Date, build.Time)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Downloading or opening ZIP...")
	content, err := g.fetcher.Fetch(ctx, gc.ZipURL)
	if err != nil {
		return nil, err
	}

	if err := g.inspect(content, gc.Strict); err != nil {
		return nil, models.NewError(models.ErrArchive, build.Filename, err)
	}

	g.logger.Info("Generating MD5 hash...")
	sums := utils.RecordChecksums(build.Filename, content)

	record := g.cfg.Template()
	record.URL = gc.ZipURL
	record.Filename = build.Filename
	record.ID = sums.ID
	record.Datetime = timestamp
	record.Size = sums.Size
	record.FileHash = sums.FileHash

	if record.URL == "" {
		g.logger.Warn("No archive URL given, the record url field is empty")
	}

	outputDir := gc.OutputDir
	if outputDir == "" {
		outputDir = g.cfg.OutputDir
	}

	result := &Result{
		Build:  build,
		Record: &record,
		Path:   writer.OutputPath(outputDir, build.Device, gc.PreRelease),
	}

	data, err := writer.Marshal(&record)
	if err != nil {
		return nil, models.NewError(models.ErrFileOp, result.Path, fmt.Errorf("failed to encode record: %w", err))
	}

	files := []writer.File{{Path: result.Path, Data: data}}
	signaturePath := result.Path + ".asc"

	// Sign before writing so a signing failure leaves no output
	if g.signer != nil {
		signature, err := g.signer.SignDetached(data)
		if err != nil {
			return nil, models.NewError(models.ErrSigning, result.Path, err)
		}
		result.SignaturePath = signaturePath
		files = append(files, writer.File{Path: signaturePath, Data: signature})

		if gc.ExportKey {
			pub, err := g.signer.GetPublicKey()
			if err != nil {
				return nil, models.NewError(models.ErrSigning, result.Path, fmt.Errorf("failed to export public key: %w", err))
			}
			result.PublicKeyPath = filepath.Join(outputDir, build.Device+".pub")
			files = append(files, writer.File{Path: result.PublicKeyPath, Data: pub})
		}
	}

	g.logger.Info("Writing JSON...")
	if err := g.writer.WriteFiles(files...); err != nil {
		return nil, err
	}

	// A signature left from an earlier signed run no longer matches
	if g.signer == nil {
		removed, err := g.writer.RemoveStale(signaturePath)
		if err != nil {
			return nil, err
		}
		if removed {
			g.logger.Warnf("Removed stale signature %s", signaturePath)
		}
	}

	g.logger.WithFields(logrus.Fields{
		"path":     result.Path,
		"size":     record.Size,
		"filehash": record.FileHash,
	}).Info("Record written")

	return result, nil
}

// inspect warns about content that does not look flashable. In strict mode
// the warning becomes an error.
func (g *Generator) inspect(content []byte, strict bool) error {
	info, err := archive.Inspect(content)
	if err == nil {
		err = info.Check()
	}
	if err == nil {
		g.logger.WithField("entries", info.Entries).Debug("Archive is a flashable zip")
		return nil
	}

	if strict {
		return err
	}

	g.logger.Warnf("Archive check: %v", err)
	return nil
}
