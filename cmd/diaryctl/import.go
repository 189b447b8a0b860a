package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
)

type quoteRecord struct {
	Content string  `json:"content" yaml:"content"`
	Author  *string `json:"author" yaml:"author"`
}

type questionRecord struct {
	QuestionText string `json:"question_text" yaml:"question_text"`
}

// NewImportCmd creates the import subcommand group.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import scraped quotes or questions from a JSON or YAML file",
		Long: `Reads a file produced by the scrapers and inserts rows that do not exist yet.
Quotes are deduplicated by content and author, questions by text.
Files ending in .yaml or .yml are read as YAML, anything else as JSON.`,
	}
	cmd.AddCommand(newImportQuotesCmd())
	cmd.AddCommand(newImportQuestionsCmd())
	return cmd
}

func newImportQuotesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Import quotes ([{content, author}])",
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes, err := readQuotes(file)
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := importQuotes(s.ctx, repository.NewQuoteRepository(s.pg.PoolHandle()), quotes)
			if err != nil {
				return err
			}
			cmd.Printf("imported %d of %d quotes\n", n, len(quotes))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the quotes file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportQuestionsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Import questions ([{question_text}])",
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions, err := readQuestions(file)
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := importQuestions(s.ctx, repository.NewQuestionRepository(s.pg.PoolHandle()), questions)
			if err != nil {
				return err
			}
			cmd.Printf("imported %d of %d questions\n", n, len(questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the questions file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// maxAuthorLength matches quotes.author.
const maxAuthorLength = 100

func readQuotes(path string) ([]domain.Quote, error) {
	var records []quoteRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}

	seen := make(map[[2]string]bool, len(records))
	quotes := make([]domain.Quote, 0, len(records))
	for _, r := range records {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		author := ""
		if r.Author != nil {
			author = clipRunes(strings.TrimSpace(*r.Author), maxAuthorLength)
		}
		key := [2]string{content, author}
		if seen[key] {
			continue
		}
		seen[key] = true
		quotes = append(quotes, domain.Quote{Content: content, Author: author})
	}
	return quotes, nil
}

func readQuestions(path string) ([]domain.Question, error) {
	var records []questionRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	questions := make([]domain.Question, 0, len(records))
	for _, r := range records {
		text := strings.TrimSpace(r.QuestionText)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		questions = append(questions, domain.Question{Text: text})
	}
	return questions, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Code("IMPORT_READ_FAILED").With("file", path).Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return oops.Code("IMPORT_PARSE_FAILED").With("file", path).Wrap(err)
	}
	return nil
}

func importQuotes(ctx context.Context, repo repository.QuoteRepository, quotes []domain.Quote) (int, error) {
	inserted := 0
	for i := range quotes {
		ok, err := repo.InsertIfAbsent(ctx, &quotes[i])
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func importQuestions(ctx context.Context, repo repository.QuestionRepository, questions []domain.Question) (int, error) {
	inserted := 0
	for i := range questions {
		ok, err := repo.InsertIfAbsent(ctx, &questions[i])
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
