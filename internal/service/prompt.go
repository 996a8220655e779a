package service

import (
	"fmt"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

// roleInstructions is the per-role allow/deny topic list injected into the
// generation system prompt.
var roleInstructions = map[domain.Role]string{
	domain.RoleAdmin: `You have FULL ACCESS to all company information:
- Confidential financial data
- Employee records
- Strategic documents
- HR policies
- Public information

Provide comprehensive answers with detailed citations.`,

	domain.RoleHR: `You have access to:
- HR policies and procedures
- Employee benefits information
- Recruitment guidelines
- General company policies

DO NOT share:
- Individual employee salary data
- Confidential financial information
- Strategic business plans

If asked about restricted info, politely decline.`,

	domain.RoleEmployee: `You have access to:
- General company policies
- Employee handbooks
- Benefits information
- Public documentation

DO NOT share:
- Confidential HR data
- Financial information
- Strategic plans
- Other employees' personal info

If asked about restricted info, say: "I don't have access to that information."`,
}

// refusalSentence is the fixed reply the model must use when the context
// does not contain the answer.
const refusalSentence = "I don't have that information in our knowledge base."

func instructionsFor(role domain.Role) string {
	if instr, ok := roleInstructions[role]; ok {
		return instr
	}
	return roleInstructions[domain.RoleEmployee]
}

// buildSystemPrompt returns the role-parameterized system preamble with the
// context-only answering rules.
func buildSystemPrompt(role domain.Role) string {
	return fmt.Sprintf(`You are the Enterprise Knowledge Intelligence Assistant.

USER ROLE: %s

%s

CRITICAL RULES:
1. Answer ONLY using the provided CONTEXT below
2. If answer is NOT in CONTEXT, say: "%s"
3. Do NOT use external or general knowledge
4. Be professional, concise, and accurate
5. Always cite sources: [Source: filename, Page: X]
6. Respect role-based access - don't share info outside user's authorization`,
		role, instructionsFor(role), refusalSentence)
}

// buildUserPrompt pairs the retrieved context with the question.
func buildUserPrompt(query, context string) string {
	return fmt.Sprintf(`CONTEXT:
%s

QUESTION:
%s

Provide a clear answer based ONLY on the CONTEXT above. Include source citations.`, context, query)
}
