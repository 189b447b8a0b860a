package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadQuotes_JSON(t *testing.T) {
	path := writeFile(t, "quotes.json", `[
		{"content": "Know thyself", "author": "Socrates"},
		{"content": " Know thyself ", "author": "Socrates"},
		{"content": "Anonymous wisdom", "author": null},
		{"content": "   ", "author": "Nobody"}
	]`)

	quotes, err := readQuotes(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Quote{
		{Content: "Know thyself", Author: "Socrates"},
		{Content: "Anonymous wisdom", Author: ""},
	}, quotes)
}

func TestReadQuotes_ClipsLongAuthors(t *testing.T) {
	long := strings.Repeat("é", maxAuthorLength+20)
	path := writeFile(t, "quotes.json", `[{"content": "Long attribution", "author": "`+long+`"}]`)

	quotes, err := readQuotes(path)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, maxAuthorLength, utf8.RuneCountInString(quotes[0].Author))
}

func TestReadQuestions_YAML(t *testing.T) {
	path := writeFile(t, "questions.yaml", `
- question_text: What made you smile today?
- question_text: "What made you smile today?  "
- question_text: What did you learn?
- question_text: ""
`)

	questions, err := readQuestions(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Question{
		{Text: "What made you smile today?"},
		{Text: "What did you learn?"},
	}, questions)
}

func TestDecodeFile_Errors(t *testing.T) {
	_, err := readQuotes(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "IMPORT_READ_FAILED", oopsErr.Code())

	_, err = readQuotes(writeFile(t, "broken.json", `{"content":`))
	require.Error(t, err)
	oopsErr, ok = oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "IMPORT_PARSE_FAILED", oopsErr.Code())
}

func TestImportQuotes_CountsOnlyNewRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).
		WithArgs("Know thyself", "Socrates").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("q-1"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).
		WithArgs("Carpe diem", "Horace").
		WillReturnError(pgx.ErrNoRows)

	n, err := importQuotes(context.Background(), repository.NewQuoteRepository(mock), []domain.Quote{
		{Content: "Know thyself", Author: "Socrates"},
		{Content: "Carpe diem", Author: "Horace"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActive_UnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=$1")).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	err = setActive(context.Background(), repository.NewUserRepository(mock), "ghost", false)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "USER_NOT_FOUND", oopsErr.Code())
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"migrate", "import", "purge-revocations", "user"} {
		assert.True(t, names[want], want)
	}

	timeoutFlag, err := cmd.PersistentFlags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, timeoutFlag)
}

func TestOpenSession_RequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_HOST", "")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	_, err := openSession(cmd)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
}
