package commands

import (
	"bytes"
	"strings"
	"testing"

	"skillsmatrix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImportRequest(t *testing.T) {
	in := strings.NewReader(`[{"emailAddress":"a@b.co"},{"emailAddress":"c@d.co"}]`)

	req, err := readImportRequest(in, importOptions{assessmentType: "self", prefix: "QA"})

	require.NoError(t, err)
	assert.Equal(t, models.AssessmentType("self"), req.AssessmentType)
	assert.Equal(t, "QA", req.Prefix)
	assert.Len(t, req.Data, 2)
	assert.JSONEq(t, `{"emailAddress":"c@d.co"}`, string(req.Data[1]))
}

func TestReadImportRequest_Errors(t *testing.T) {
	_, err := readImportRequest(strings.NewReader(`{"not":"an array"}`), importOptions{assessmentType: "self"})
	assert.Error(t, err)

	req, err := readImportRequest(strings.NewReader(`null`), importOptions{assessmentType: "gap"})
	require.NoError(t, err)
	assert.NotNil(t, req.Data)
	assert.Empty(t, req.Data)
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "import", "recompute-gaps"}, names)

	imp, _, err := root.Find([]string{"import"})
	require.NoError(t, err)
	assert.NotNil(t, imp.Flags().Lookup("type"))
	assert.NotNil(t, imp.Flags().Lookup("file"))
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, &models.BulkUpsertResult{UpdatedCount: 3, Errors: []models.BatchError{}}))
	assert.JSONEq(t, `{"updatedCount":3,"errors":[]}`, buf.String())
}
