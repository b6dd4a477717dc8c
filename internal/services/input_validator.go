package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
)

const (
	msgInvalidInputType     = "Invalid input type"
	msgInvalidJSONInput     = "Invalid JSON input"
	msgNoFileUploaded       = "No file uploaded"
	msgInvalidBigQueryTable = "Invalid BigQuery table format. Use project.dataset.table"
	msgInvalidInputMetadata = "Invalid input metadata"
)

var bigQueryTablePattern = regexp.MustCompile(`^[\w-]+\.[\w-]+\.[\w-]+$`)

// StoredUpload describes an attachment that has already been persisted.
type StoredUpload struct {
	Key          string
	Path         string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// ExecutionInput is the raw, unvalidated execution request.
type ExecutionInput struct {
	InputType     string
	InputSource   string
	InputMetadata string
	Upload        *StoredUpload
}

type ValidatedInput struct {
	InputType     types.InputType
	InputSource   string
	InputMetadata datatypes.JSON
}

// ValidateExecutionInput checks a request against its input type. The
// type-specific rules run before metadata is looked at, so a file request
// without an attachment always fails with "No file uploaded". It never
// touches storage; the caller owns cleanup of a rejected upload.
func ValidateExecutionInput(in ExecutionInput) (*ValidatedInput, error) {
	inputType := types.InputType(strings.TrimSpace(in.InputType))
	if !inputType.Valid() {
		return nil, apierr.InvalidInput(msgInvalidInputType)
	}

	out := &ValidatedInput{InputType: inputType}
	switch inputType {
	case types.InputTypeDirect:
		if !json.Valid([]byte(in.InputSource)) {
			return nil, apierr.InvalidInput(msgInvalidJSONInput)
		}
		out.InputSource = in.InputSource
	case types.InputTypeFile:
		if in.Upload == nil {
			return nil, apierr.InvalidInput(msgNoFileUploaded)
		}
		out.InputSource = in.Upload.Path
	case types.InputTypeBigQuery:
		src := strings.TrimSpace(in.InputSource)
		if !bigQueryTablePattern.MatchString(src) {
			return nil, apierr.InvalidInput(msgInvalidBigQueryTable)
		}
		out.InputSource = src
	}

	meta, err := parseMetadata(in.InputMetadata)
	if err != nil {
		return nil, err
	}
	if inputType == types.InputTypeFile {
		meta, err = withUploadMetadata(meta, in.Upload)
		if err != nil {
			return nil, err
		}
	}
	out.InputMetadata = datatypes.JSON(meta)
	return out, nil
}

// parseMetadata keeps caller metadata verbatim. Any JSON value is accepted;
// an empty string stands for {}.
func parseMetadata(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, apierr.InvalidInput(msgInvalidInputMetadata)
	}
	return json.RawMessage(raw), nil
}

// withUploadMetadata records the stored file's facts over the caller's
// metadata. A non-object value from the caller is kept under "client".
// storageKey is what OpenInput reads the object back with.
func withUploadMetadata(meta json.RawMessage, up *StoredUpload) (json.RawMessage, error) {
	var obj map[string]any
	if err := json.Unmarshal(meta, &obj); err != nil || obj == nil {
		obj = map[string]any{"client": meta}
	}
	obj["storageKey"] = up.Key
	obj["originalName"] = up.OriginalName
	obj["mimeType"] = up.MimeType
	obj["sizeBytes"] = up.SizeBytes
	return json.Marshal(obj)
}

// jsonObjectOrEmpty validates an optional JSON object field on create requests.
func jsonObjectOrEmpty(raw json.RawMessage, msg string) (datatypes.JSON, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return datatypes.JSON([]byte("{}")), nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil || obj == nil {
		return nil, apierr.InvalidInput(msg)
	}
	return datatypes.JSON([]byte(trimmed)), nil
}
