package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"skillsmatrix/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type importOptions struct {
	file           string
	assessmentType string
	prefix         string
	uploadedBy     string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk upsert assessment records from a JSON array file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), fromContext(cmd.Context()), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "JSON file holding an array of records, - for stdin (required)")
	cmd.Flags().StringVarP(&opts.assessmentType, "type", "t", "", "assessment type: self, manager, gap or taxonomy (required)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "collection namespace (default DEFAULT_NAMESPACE)")
	cmd.Flags().StringVar(&opts.uploadedBy, "uploaded-by", "cli", "uploader recorded on the archived payload")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// readImportRequest builds the ingestion request from an array of records.
func readImportRequest(r io.Reader, opts importOptions) (models.BulkUpdateRequest, error) {
	req := models.BulkUpdateRequest{
		AssessmentType: models.AssessmentType(opts.assessmentType),
		Prefix:         opts.prefix,
	}
	if err := json.NewDecoder(r).Decode(&req.Data); err != nil {
		return req, fmt.Errorf("decode records: %w", err)
	}
	if req.Data == nil {
		req.Data = []json.RawMessage{}
	}
	return req, nil
}

func runImport(ctx context.Context, ac *appContext, opts importOptions, out io.Writer) error {
	cfg, log := ac.cfg, ac.log
	defer log.Sync()

	in := os.Stdin
	if opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	req, err := readImportRequest(in, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.BulkRequestTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background(), log)

	result, err := a.assessments.BulkUpsert(ctx, req, opts.uploadedBy)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		log.Warn("import finished with failed batches", zap.Int("failed_batches", len(result.Errors)))
	}
	return writeResult(out, result)
}

func writeResult(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
