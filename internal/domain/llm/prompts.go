package llm

import (
	"context"
	"fmt"
	"strings"

	"convocast-go/internal/domain/script"
)

const qaSystemPrompt = `You are an expert at creating onboarding content for new team members. Your task is to convert technical documentation into a conversational Q&A format that helps new employees understand the project better.

Guidelines:
- Create 3-5 questions and answers per content section
- Focus on what new team members would want to know
- Make answers clear and practical
- Include context about business requirements, system design, and project goals
- Use a friendly, conversational tone suitable for a podcast`

const groupQASystemPrompt = `You are an expert at creating comprehensive onboarding content for new team members. Your task is to convert multiple related technical documents into a holistic Q&A format that helps new employees understand the project better.

Guidelines:
- Create 5-8 comprehensive questions and answers that span across all the provided content
- Connect information from different pages to provide holistic understanding
- Focus on what new team members would want to know about this topic area
- Make answers clear, practical, and interconnected
- Include context about business requirements, system design, and project goals
- Use a friendly, conversational tone suitable for a podcast
- Avoid duplicating similar information - synthesize and combine related concepts
- ALWAYS format your response as Q: [Question] followed by A: [Answer]
- Each question and answer should be on separate lines`

const conversationSystemPrompt = `You are an expert podcast script writer. Your task is to turn question and answer material into a natural, engaging conversation between two podcast hosts: Alex, the curious host who guides the show, and Sam, the knowledgeable expert who explains things.

Guidelines:
- Alex opens the show, introduces the topic, and asks the questions
- Sam answers with clear, practical explanations drawn from the material
- Keep all the facts from the answers intact, never invent new information
- Use natural spoken language with smooth transitions between topics
- Keep individual speaking turns short enough to follow by ear
- ALWAYS format every line as either ALEX: [what Alex says] or SAM: [what Sam says]
- Do not add stage directions, markdown, or any other formatting`

// ConvertToQA asks the model to rewrite one page of documentation as
// question and answer pairs. The response is the raw model output; use
// ParseQAResponse to extract structured pairs.
func (c *Client) ConvertToQA(ctx context.Context, content, pageTitle string) (string, error) {
	prompt := fmt.Sprintf(`Convert the following Confluence page content into a Q&A format for new team member onboarding:

Page Title: %s

Content:
%s

Please create relevant questions that a new team member would ask about this content, and provide clear, helpful answers. Format as:

Q: [Question]
A: [Answer]

Focus on practical information that helps with onboarding and project understanding.`, pageTitle, content)

	return c.Complete(ctx, prompt, qaSystemPrompt)
}

// ConvertGroupToQA asks the model for a holistic Q&A set spanning a group
// of related pages.
func (c *Client) ConvertGroupToQA(ctx context.Context, combinedContent, groupName string, pageTitles []string) (string, error) {
	c.logger.InfoTag("LLM", "converting group %q to q&a, %d chars from %d pages",
		groupName, len(combinedContent), len(pageTitles))

	prompt := fmt.Sprintf(`Convert the following group of related Confluence pages into a holistic Q&A format for new team member onboarding:

Topic Area: %s

Source Pages: %s

Combined Content:
%s

Please create comprehensive questions that a new team member would ask about this topic area, synthesizing information from all the provided pages. Provide clear, helpful answers that connect concepts across the different pages.

IMPORTANT: Format your response exactly as:

Q: [Question]
A: [Answer]

Q: [Question]
A: [Answer]

Focus on providing a complete understanding of this topic area for onboarding purposes.`,
		groupName, strings.Join(pageTitles, ", "), combinedContent)

	return c.Complete(ctx, prompt, groupQASystemPrompt)
}

// ConvertQAToConversation asks the model to rewrite Q&A material as a two
// host dialogue script. The returned script uses ALEX:/SAM: speaker lines
// that script.ParseDialogue understands.
func (c *Client) ConvertQAToConversation(ctx context.Context, items []script.QA, episodeTitle string, style script.Style) (string, error) {
	if style == "" {
		style = script.StyleInterview
	}

	var material strings.Builder
	for _, qa := range items {
		fmt.Fprintf(&material, "Q: %s\nA: %s\n\n", qa.Question, qa.Answer)
	}

	prompt := fmt.Sprintf(`Turn the following question and answer material into a natural %s style conversation between Alex and Sam for a podcast episode titled "%s":

Q&A Material:
%s
IMPORTANT: Format your response exactly as:

ALEX: [what Alex says]
SAM: [what Sam says]

Start with Alex welcoming listeners and introducing the topic, and end with Alex wrapping up the episode.`,
		style, episodeTitle, material.String())

	return c.Complete(ctx, prompt, conversationSystemPrompt)
}
