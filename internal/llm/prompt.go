package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an assistant that studies a company's website content and produces structured training data for a customer-facing chatbot. Always answer with a single JSON object and nothing else.`

const faqTarget = 100

// BuildCombinedPrompt asks for the summary and the FAQ set in one response.
func BuildCombinedPrompt(content, domain string) string {
	var b strings.Builder
	if domain != "" {
		fmt.Fprintf(&b, "Analyze the following content from the website %s and produce training data for a chatbot that will answer visitor questions about this company.\n\n", domain)
	} else {
		b.WriteString("Analyze the following website content and produce training data for a chatbot that will answer visitor questions about this company.\n\n")
	}
	b.WriteString("Respond with a JSON object of this exact shape:\n")
	b.WriteString("{\n")
	b.WriteString("  \"summary\": \"<a thorough summary of the company, its offering and key facts>\",\n")
	b.WriteString("  \"faqs\": [{\"question\": \"...\", \"answer\": \"...\", \"category\": \"...\"}]\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "Generate exactly %d FAQs. Cover every topic present in the content: products, services, open positions, contact details, processes and policies. Answers must be grounded in the content, never invented.\n\n", faqTarget)
	b.WriteString("Website content:\n\n")
	b.WriteString(content)
	return b.String()
}

// BuildSummaryPrompt asks only for the company summary.
func BuildSummaryPrompt(content, domain string) string {
	var b strings.Builder
	if domain != "" {
		fmt.Fprintf(&b, "Summarize the following content from the website %s. ", domain)
	} else {
		b.WriteString("Summarize the following website content. ")
	}
	b.WriteString("Describe the company, what it offers, who it serves and any key facts a support chatbot should know.\n\n")
	b.WriteString("Respond with a JSON object of this exact shape:\n")
	b.WriteString("{\"summary\": \"<the summary>\"}\n\n")
	b.WriteString("Website content:\n\n")
	b.WriteString(content)
	return b.String()
}

// BuildFAQPrompt asks only for the FAQ set.
func BuildFAQPrompt(content, domain string) string {
	var b strings.Builder
	if domain != "" {
		fmt.Fprintf(&b, "Generate exactly %d FAQs from the following content of the website %s, for a chatbot answering visitor questions about this company.\n\n", faqTarget, domain)
	} else {
		fmt.Fprintf(&b, "Generate exactly %d FAQs from the following website content, for a chatbot answering visitor questions about this company.\n\n", faqTarget)
	}
	b.WriteString("Respond with a JSON object of this exact shape:\n")
	b.WriteString("{\"faqs\": [{\"question\": \"...\", \"answer\": \"...\", \"category\": \"...\"}]}\n\n")
	b.WriteString("Cover every topic present in the content: products, services, open positions, contact details, processes and policies. Answers must be grounded in the content, never invented.\n\n")
	b.WriteString("Website content:\n\n")
	b.WriteString(content)
	return b.String()
}
