package model_test

import (
	"testing"

	"github.com/MaxonPy/kanban/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFileList_Value_NilBecomesEmptyList(t *testing.T) {
	var files model.FileList

	value, err := files.Value()

	assert.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestFileList_Scan_NullColumn(t *testing.T) {
	var files model.FileList

	// NULL в колонке читается как пустой список, не как nil
	err := files.Scan(nil)

	assert.NoError(t, err)
	assert.NotNil(t, files)
	assert.Len(t, files, 0)
}

func TestFileList_Scan_SerializedList(t *testing.T) {
	var files model.FileList

	err := files.Scan(`["report.pdf","notes.txt"]`)

	assert.NoError(t, err)
	assert.Equal(t, model.FileList{"report.pdf", "notes.txt"}, files)
}

func TestFileList_Scan_InvalidPayload(t *testing.T) {
	var files model.FileList

	err := files.Scan("not json")

	assert.Error(t, err)
}
