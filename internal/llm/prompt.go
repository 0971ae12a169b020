package llm

import (
	"strings"

	"github.com/plainclause/plainclause/constants"
)

// BuildSimplifyPrompt composes the instruction prompt for the simplification
// call. The section names are load-bearing: ParseAnalysis expects the model
// to echo them back as top-level JSON keys.
func BuildSimplifyPrompt(documentType, documentText string) string {
	if strings.TrimSpace(documentType) == "" {
		documentType = "contract"
	}

	var b strings.Builder
	b.WriteString("You are a legal expert specializing in making complex legal documents accessible to everyday people.\n\n")
	b.WriteString("Document Type: ")
	b.WriteString(documentType)
	b.WriteString("\n\n")
	b.WriteString("Please analyze this legal document and provide a structured response with the following sections. ")
	b.WriteString("For each section, provide content that can be rendered as HTML:\n\n")
	b.WriteString("1. SIMPLIFIED_SUMMARY: A clear, plain-language summary in markdown format with proper paragraphs\n")
	b.WriteString("2. KEY_CLAUSES: List the 5 most important clauses. For each clause, provide:\n")
	b.WriteString("   - title: Short descriptive title\n")
	b.WriteString("   - explanation: Plain-language explanation\n")
	b.WriteString("   - importance: Why this clause matters (High/Medium/Low)\n")
	b.WriteString("   - original_excerpt: The actual text from the document (if identifiable)\n")
	b.WriteString("3. RISK_ASSESSMENT:\n")
	b.WriteString("   - overall_risk: Number from 1-10\n")
	b.WriteString("   - risk_factors: List of specific risks with severity levels\n")
	b.WriteString("4. IMPORTANT_TERMS: Key legal terms with definitions\n")
	b.WriteString("5. ACTION_ITEMS: Specific things the reader should know or do\n\n")
	b.WriteString("Make everything conversational and easy to understand. Avoid legal jargon.\n")
	b.WriteString("Format your response as valid JSON.\n\n")
	b.WriteString("Document text:\n")
	b.WriteString(documentText)
	return b.String()
}

// BuildQuestionPrompt composes the follow-up Q&A prompt. Only the first
// constants.QuestionContextLimit bytes of the document are quoted.
func BuildQuestionPrompt(documentText, question string) string {
	doc := documentText
	if len(doc) > constants.QuestionContextLimit {
		doc = doc[:constants.QuestionContextLimit] + "…(truncated)"
	}

	var b strings.Builder
	b.WriteString("Based on this legal document, answer the user's question in simple, clear language. ")
	b.WriteString("Avoid legal jargon and explain things as if talking to a friend. ")
	b.WriteString("Format your response as HTML with proper paragraphs and emphasis where needed.\n\n")
	b.WriteString("Document: ")
	b.WriteString(doc)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nProvide your answer in HTML format with <p>, <strong>, <em> tags as needed.")
	return b.String()
}
