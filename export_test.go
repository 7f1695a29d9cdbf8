package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/soc-portfolio/internal/content"
)

func TestWriteExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, content.Default(), "yaml"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "experience")
	assert.Contains(t, buf.String(), "severity: cmd")
	assert.Contains(t, buf.String(), "delay: 500ms")
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, content.Default(), "json"))

	var doc struct {
		Certificates []content.CertificateEntry `json:"certificates"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Certificates, len(content.Certificates))
}

func TestWriteExportUnknownFormat(t *testing.T) {
	err := writeExport(&bytes.Buffer{}, content.Default(), "toml")
	assert.EqualError(t, err, `unknown format "toml" (want yaml or json)`)
}
