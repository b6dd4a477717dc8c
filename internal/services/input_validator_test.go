package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
)

func TestValidateExecutionInputRejections(t *testing.T) {
	cases := []struct {
		name string
		in   ExecutionInput
		msg  string
	}{
		{"unknown type", ExecutionInput{InputType: "stream", InputSource: "{}"}, "Invalid input type"},
		{"empty type", ExecutionInput{InputSource: "{}"}, "Invalid input type"},
		{"direct not json", ExecutionInput{InputType: "direct", InputSource: "{not json"}, "Invalid JSON input"},
		{"direct empty", ExecutionInput{InputType: "direct"}, "Invalid JSON input"},
		{"file without upload", ExecutionInput{InputType: "file", InputSource: "x.csv"}, "No file uploaded"},
		{"bigquery two parts", ExecutionInput{InputType: "bigquery", InputSource: "myproj.myds"}, "Invalid BigQuery table format. Use project.dataset.table"},
		{"bigquery bad chars", ExecutionInput{InputType: "bigquery", InputSource: "my proj.ds.t"}, "Invalid BigQuery table format. Use project.dataset.table"},
		{"bigquery four parts", ExecutionInput{InputType: "bigquery", InputSource: "a.b.c.d"}, "Invalid BigQuery table format. Use project.dataset.table"},
		{"metadata garbage", ExecutionInput{InputType: "direct", InputSource: "{}", InputMetadata: "nope"}, "Invalid input metadata"},
		{"file without upload and garbage metadata", ExecutionInput{InputType: "file", InputSource: "x", InputMetadata: "not-json"}, "No file uploaded"},
		{"direct not json and garbage metadata", ExecutionInput{InputType: "direct", InputSource: "{oops", InputMetadata: "not-json"}, "Invalid JSON input"},
		{"bigquery bad table and garbage metadata", ExecutionInput{InputType: "bigquery", InputSource: "a.b", InputMetadata: "{"}, "Invalid BigQuery table format. Use project.dataset.table"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateExecutionInput(tc.in)
			require.Error(t, err)
			ae, ok := apierr.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, ae.Status)
			assert.Equal(t, tc.msg, ae.Error())
		})
	}
}

func TestValidateExecutionInputAccepts(t *testing.T) {
	out, err := ValidateExecutionInput(ExecutionInput{InputType: "direct", InputSource: `{"text":"hi"}`})
	require.NoError(t, err)
	assert.Equal(t, types.InputTypeDirect, out.InputType)
	assert.Equal(t, `{"text":"hi"}`, out.InputSource)
	assert.JSONEq(t, `{}`, string(out.InputMetadata))

	out, err = ValidateExecutionInput(ExecutionInput{InputType: "direct", InputSource: `{"a":1}`, InputMetadata: "[1]"})
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(out.InputMetadata))

	out, err = ValidateExecutionInput(ExecutionInput{InputType: "bigquery", InputSource: "my-proj.sales_ds.orders", InputMetadata: `{"limit":10}`})
	require.NoError(t, err)
	assert.Equal(t, "my-proj.sales_ds.orders", out.InputSource)
	assert.JSONEq(t, `{"limit":10}`, string(out.InputMetadata))
}

func TestValidateExecutionInputFileMergesMetadata(t *testing.T) {
	out, err := ValidateExecutionInput(ExecutionInput{
		InputType:     "file",
		InputSource:   "ignored",
		InputMetadata: `{"delimiter":",","originalName":"spoofed"}`,
		Upload: &StoredUpload{
			Key:          "executions/d/x-data.csv",
			Path:         "/uploads/executions/d/x-data.csv",
			OriginalName: "data.csv",
			MimeType:     "text/csv",
			SizeBytes:    42,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/executions/d/x-data.csv", out.InputSource)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(out.InputMetadata, &meta))
	assert.Equal(t, ",", meta["delimiter"])
	assert.Equal(t, "executions/d/x-data.csv", meta["storageKey"])
	assert.Equal(t, "data.csv", meta["originalName"])
	assert.Equal(t, "text/csv", meta["mimeType"])
	assert.EqualValues(t, 42, meta["sizeBytes"])
}

func TestValidateExecutionInputFileKeepsNonObjectMetadata(t *testing.T) {
	out, err := ValidateExecutionInput(ExecutionInput{
		InputType:     "file",
		InputMetadata: `["a","b"]`,
		Upload:        &StoredUpload{Path: "/uploads/x.bin", OriginalName: "x.bin", MimeType: "application/octet-stream", SizeBytes: 3},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"client":["a","b"],"storageKey":"","originalName":"x.bin","mimeType":"application/octet-stream","sizeBytes":3}`,
		string(out.InputMetadata))
}
