package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// NoRelevantInfoAnswer is returned without calling the model when retrieval
// finds nothing to ground an answer on
const NoRelevantInfoAnswer = "No relevant information about this question was found in the processed videos."

// TruncationMarker is appended when transcript context is cut at the limit
const TruncationMarker = "..."

// ContextSource provides the grounding text for a question. found is false
// when there is nothing relevant to answer from.
type ContextSource interface {
	Context(ctx context.Context, question string) (text string, found bool, err error)
}

// DirectContext answers from a single stored transcript, truncated to the
// configured character limit
type DirectContext struct {
	store   *TranscriptStore
	videoID string
	limit   int
}

// NewDirectContext creates a transcript-backed context source
func NewDirectContext(store *TranscriptStore, videoID string, limit int) *DirectContext {
	return &DirectContext{store: store, videoID: videoID, limit: limit}
}

// Context implements ContextSource
func (d *DirectContext) Context(ctx context.Context, question string) (string, bool, error) {
	record, err := d.store.Load(d.videoID)
	if err != nil {
		return "", false, err
	}
	if record == nil || record.Transcript == "" {
		return "", false, nil
	}
	return TruncateText(record.Transcript, d.limit), true, nil
}

// TruncateText cuts text at limit characters, appending a marker when
// anything was dropped. Counting is by rune so multibyte text survives.
func TruncateText(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + TruncationMarker
}

// CorpusContext answers from the top-scoring corpus chunks across all
// ingested videos
type CorpusContext struct {
	corpus     *CorpusClient
	corpusName string
	topK       int
}

// NewCorpusContext creates a corpus-backed context source
func NewCorpusContext(corpus *CorpusClient, corpusName string, topK int) *CorpusContext {
	return &CorpusContext{corpus: corpus, corpusName: corpusName, topK: topK}
}

// Context implements ContextSource
func (c *CorpusContext) Context(ctx context.Context, question string) (string, bool, error) {
	corpus, err := c.corpus.GetOrCreateCorpus(ctx, c.corpusName)
	if err != nil {
		return "", false, err
	}

	chunks, err := c.corpus.Query(ctx, corpus, question, c.topK)
	if err != nil {
		return "", false, fmt.Errorf("querying corpus: %w", err)
	}
	if len(chunks) == 0 {
		return "", false, nil
	}

	return FormatChunks(chunks), true, nil
}

// FormatChunks labels retrieved chunks so the model can tell them apart
func FormatChunks(chunks []ChunkResult) string {
	var sb strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Source %d]\n%s", i+1, chunk.Text)
	}
	return sb.String()
}

// QA answers questions grounded on a context source
type QA struct {
	ai       *AI
	prompts  *PromptManager
	source   ContextSource
	language string
	verbose  bool
}

// NewQA creates a question answerer
func NewQA(ai *AI, prompts *PromptManager, source ContextSource, language string, verbose bool) *QA {
	return &QA{
		ai:       ai,
		prompts:  prompts,
		source:   source,
		language: language,
		verbose:  verbose,
	}
}

// Answer resolves one question. Generation failures come back as the answer
// text so an interactive session survives a flaky model call; only context
// lookup problems are reported as errors.
func (q *QA) Answer(ctx context.Context, question string) (string, error) {
	contextText, found, err := q.source.Context(ctx, question)
	if err != nil {
		return "", err
	}
	if !found {
		return NoRelevantInfoAnswer, nil
	}

	prompt, err := q.prompts.CreatePrompt(contextText, question, q.language)
	if err != nil {
		return "", err
	}

	if q.verbose {
		fmt.Printf("Prompt is %d characters\n", len(prompt))
	}

	answer, err := q.ai.Generate(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Could not generate an answer: %v", err), nil
	}
	return answer, nil
}

// Interactive runs the question loop until quit/exit/q or EOF
func (q *QA) Interactive(ctx context.Context, in io.Reader, ui UIManager) error {
	ui.Println("Ask questions about the video content. Type 'quit' to leave.")

	pretty := isatty.IsTerminal(os.Stdout.Fd())
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			ui.Println("Bye.")
			return nil
		}

		answer, err := q.Answer(ctx, question)
		if err != nil {
			ui.Warnf("Error: %v\n", err)
			continue
		}

		if pretty {
			rendered, err := RenderMarkdown(answer)
			if err == nil {
				fmt.Print(rendered)
				continue
			}
		}
		fmt.Println(answer)
	}
}
