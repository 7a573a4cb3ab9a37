package assistant

import (
	"fmt"
	"strings"

	"smart-reader-api/core/domain"
)

func summaryPrompt(text string) string {
	return fmt.Sprintf(`Summarize the article below for a reader.

Return a JSON object with this shape:
{"summary": string, "keyPoints": [{"title": string, "description": string, "quoteAnchor": string}]}

Rules:
- "summary" is two to four sentences.
- Give between three and six key points.
- "quoteAnchor" must be copied exactly, character for character, from the article.
  Use a short phrase of four to twelve words that appears once in the article.
  Never paraphrase it and never join text from two different paragraphs.

Article:
"""
%s
"""`, text)
}

func definePrompt(word, passage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Define the word %q", word)
	if passage != "" {
		fmt.Fprintf(&b, " as it is used in this passage:\n\"\"\"\n%s\n\"\"\"\n", passage)
	} else {
		b.WriteString(".\n")
	}
	b.WriteString(`
Return a JSON object with this shape:
{"word": string, "phonetic": string, "definitions": [{"partOfSpeech": string, "meaning": string, "example": string}]}

List the sense that matches the passage first.`)
	return b.String()
}

func chatPrompt(history []domain.ChatMessage, message, articleText string) string {
	var b strings.Builder
	b.WriteString("You are a reading assistant answering questions about one article. ")
	b.WriteString("Answer from the article when you can and say so when it does not cover the question.\n\n")
	if articleText != "" {
		fmt.Fprintf(&b, "Article:\n\"\"\"\n%s\n\"\"\"\n\n", articleText)
	}
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", speaker(m.Role), m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}

func speaker(role string) string {
	if role == domain.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
