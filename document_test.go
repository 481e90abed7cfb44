package openapireq_test

import (
	"context"
	"io/fs"
	"testing"

	v "github.com/Gobd/openapireq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specFile = "testdata/openapi.yml"

func loadDoc(t *testing.T, opts ...v.LoadOption) *v.Document {
	t.Helper()
	doc, err := v.Load(specFile, opts...)
	require.NoError(t, err)
	return doc
}

// ============ Loading ============

func TestLoadMissingFile(t *testing.T) {
	_, err := v.Load("testdata/nope.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	_, err := v.Load("testdata/bad.yml")
	require.Error(t, err)

	var parseErr *v.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "testdata/bad.yml", parseErr.Location)
}

func TestLoadJSON(t *testing.T) {
	doc, err := v.Load("testdata/petstore.json")
	require.NoError(t, err)

	node, err := doc.Resolve("paths/~1pets/get")
	require.NoError(t, err)
	assert.NotNil(t, node)
}

// Unquoted response codes decode as int YAML keys; the tree must still
// feed the schema engine and resolve by string pointer segments.
func TestLoadUnquotedStatusCodes(t *testing.T) {
	doc, err := v.Load("testdata/unquoted.yml")
	require.NoError(t, err)

	schemaPtr := "paths/~1users/post/requestBody/content/application~1json/schema"
	verrs, err := doc.ValidateAt(schemaPtr, map[string]any{"name": "alice"})
	require.NoError(t, err)
	assert.Empty(t, verrs)

	verrs, err = doc.ValidateAt(schemaPtr, map[string]any{})
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "required", verrs[0].Type)

	_, err = doc.Resolve("paths/~1users/post/responses/201")
	assert.NoError(t, err)
}

// ============ Pointer resolution ============

func TestResolve(t *testing.T) {
	doc := loadDoc(t)

	op, err := doc.Resolve("paths/~1users/post")
	require.NoError(t, err)
	assert.Contains(t, op, "requestBody")

	// A leading slash is accepted too.
	same, err := doc.Resolve("/paths/~1users/post")
	require.NoError(t, err)
	assert.Equal(t, op, same)

	// Templated path keys resolve as single escaped segments.
	_, err = doc.Resolve("paths/~1users~1{id}/get/parameters")
	require.NoError(t, err)
}

func TestResolveNotFound(t *testing.T) {
	doc := loadDoc(t)

	_, err := doc.Resolve("paths/~1users/head")
	require.Error(t, err)
	assert.ErrorIs(t, err, v.ErrNotFound)

	var nf *v.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "paths/~1users/head", nf.Pointer)
}

// ============ Schema validation ============

func TestValidateAt(t *testing.T) {
	doc := loadDoc(t)
	schemaPtr := "paths/~1users/post/requestBody/content/application~1json/schema"

	verrs, err := doc.ValidateAt(schemaPtr, map[string]any{"name": "alice"})
	require.NoError(t, err)
	assert.Empty(t, verrs)

	verrs, err = doc.ValidateAt(schemaPtr, map[string]any{"email": "a@b.c"})
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "required", verrs[0].Type)
	assert.Contains(t, verrs[0].Message, "name")
}

func TestValidateAtNestedRef(t *testing.T) {
	doc := loadDoc(t)
	schemaPtr := "paths/~1users/post/requestBody/content/application~1json/schema"

	// address resolves through #/components/schemas/Address.
	verrs, err := doc.ValidateAt(schemaPtr, map[string]any{
		"name":    "alice",
		"address": map[string]any{"city": 5},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, verrs)
}

func TestValidateAtNotFound(t *testing.T) {
	doc := loadDoc(t)

	_, err := doc.ValidateAt("paths/~1echo/patch/requestBody/content/application~1json/schema", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, v.ErrNotFound)
}

func TestValidateRef(t *testing.T) {
	doc := loadDoc(t)

	verrs, err := doc.ValidateRef("#/components/schemas/UserID", "123")
	require.NoError(t, err)
	assert.Empty(t, verrs)

	verrs, err = doc.ValidateRef("#/components/schemas/UserID", "abc")
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "pattern", verrs[0].Type)
}

func TestWithSchemas(t *testing.T) {
	doc := loadDoc(t, v.WithSchemas(map[string]any{
		"External": map[string]any{"type": "string", "pattern": "^x-"},
	}))

	verrs, err := doc.ValidateRef("#/components/schemas/External", "x-ok")
	require.NoError(t, err)
	assert.Empty(t, verrs)

	verrs, err = doc.ValidateRef("#/components/schemas/External", "nope")
	require.NoError(t, err)
	assert.NotEmpty(t, verrs)
}

// ============ Document-level validation ============

func TestDocumentValidate(t *testing.T) {
	doc := loadDoc(t)
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestDocumentValidateRejectsNonOpenAPI(t *testing.T) {
	doc, err := v.Load("testdata/not_openapi.yml")
	require.NoError(t, err)
	assert.Error(t, doc.Validate(context.Background()))
}
