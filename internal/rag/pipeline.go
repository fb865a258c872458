package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// Number of segments retrieved as context for each question.
const topK = 4

const answerSystemPrompt = `You are a helpful assistant answering questions about uploaded documents.
Use only the document excerpts provided below. If the excerpts do not contain
the answer, say that the documents do not cover it. Do not invent sources.`

const condenseSystemPrompt = `Given the conversation so far, rewrite the user's follow-up question as a
standalone question that can be understood without the conversation.
Return only the rewritten question.`

// Pipeline is the built conversational answering construct: a similarity
// index over the session's documents plus the model collaborators and the
// conversation memory.  A rebuild produces a fresh Pipeline; the memory is
// the only part carried over.
type Pipeline struct {
	index    *Index
	embedder Embedder
	llm      ChatModel
	memory   *Memory
}

// Build splits the accumulated fragments into overlapping segments, embeds
// every segment and indexes the vectors.  The whole collection is
// recomputed on every call; there is no incremental update.  A supplied
// memory is threaded through unchanged so history survives the rebuild;
// nil memory starts a fresh conversation.
func Build(ctx context.Context, fragments []model.Fragment, memory *Memory, embedder Embedder, llm ChatModel) (*Pipeline, error) {
	if len(fragments) == 0 {
		return nil, ErrEmptyCollection
	}

	segments := SplitFragments(fragments, ChunkSize, ChunkOverlap)
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(segments))
	}

	index := &Index{}
	for i, s := range segments {
		index.Add(s, vectors[i])
	}

	if memory == nil {
		memory = NewMemory()
	}
	return &Pipeline{index: index, embedder: embedder, llm: llm, memory: memory}, nil
}

// Memory exposes the conversation memory so a rebuild can thread it into
// the next pipeline.
func (p *Pipeline) Memory() *Memory { return p.memory }

// Ask answers one question against the index.  Follow-up questions are
// first condensed into standalone form using the conversation history,
// then the closest segments are retrieved and handed to the model together
// with the history.  The question/answer turn is appended to memory before
// returning.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	standalone := question
	if p.memory.Len() > 0 {
		condensed, err := p.llm.Complete(ctx, p.condenseMessages(question))
		if err != nil {
			return "", err
		}
		if c := strings.TrimSpace(condensed); c != "" {
			standalone = c
		}
	}

	vectors, err := p.embedder.Embed(ctx, []string{standalone})
	if err != nil {
		return "", err
	}
	hits := p.index.Search(vectors[0], topK)

	answer, err := p.llm.Complete(ctx, p.answerMessages(hits, question))
	if err != nil {
		return "", err
	}

	p.memory.Append(RoleUser, question)
	p.memory.Append(RoleAssistant, answer)
	return answer, nil
}

func (p *Pipeline) condenseMessages(question string) []Message {
	msgs := []Message{{Role: "system", Content: condenseSystemPrompt}}
	for _, t := range p.memory.Turns() {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return append(msgs, Message{Role: RoleUser, Content: question})
}

func (p *Pipeline) answerMessages(hits []Hit, question string) []Message {
	var b strings.Builder
	b.WriteString(answerSystemPrompt)
	b.WriteString("\n\nDocument excerpts:\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "\n[%s, page %d]\n%s\n", h.Segment.Source, h.Segment.Page, h.Segment.Text)
	}

	msgs := []Message{{Role: "system", Content: b.String()}}
	for _, t := range p.memory.Turns() {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return append(msgs, Message{Role: RoleUser, Content: question})
}
