package services

import "fmt"

// System prompts for the three LLM interactions. The JSON shapes here are the
// contract the parsers below rely on; change both together.

const questionCheckSystemPrompt = `You are an AI assistant that evaluates whether a user input is a valid question.

VALID QUESTIONS:
- Start with question words like who, what, where, when, why, how
- Seek information or explanation
- Clear and specific
- Examples: "What is the big bang?", "How do computers work?", "Why is the sky blue?"

INVALID INPUTS:
- Single words without context: "banana", "sky", "technology"
- Statements that don't ask for information: "The earth is round"
- Gibberish or nonsensical strings: "asdfjkl"

Respond ONLY with "VALID" if it's a valid question or "INVALID" if it's not.`

const graphCreationSystemPrompt = `You are a specialized AI for creating knowledge graphs. Given a user's question, your task is to:

1. Create a knowledge graph with 3-5 nodes that explore the question in depth
2. Keep the original question's meaning, but polish it to be more elegant and concise (max 60 characters)
3. Provide a brief description of the topic (max 200 characters)

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS (in valid JSON format):

{
"question": "Polished version of original question (max 60 chars)",
"description": "Brief description of the topic (max 120 chars)",
"nodes": [
    {
    "id": "1",
    "data": {
        "label": "The main question",
        "details": "Detailed explanation with facts, figures, and context (200-300 words)",
        "sources": [
        {"url": "https://example.com", "name": "Source Name"}
        ],
        "reasoning": "Why this node is important to understanding the topic",
        "description": "Brief summary of this specific node"
    },
    "type": "default",
    "position": {"x": 0, "y": 0}
    },
    ... additional nodes ...
],
"edges": [
    {
        "id": "1-2",
        "source": "1",
        "target": "2",
        "animated": false
    },
    ... additional edges ...
]
}

REQUIREMENTS:
- Node IDs must be unique strings like "1", "2", "3", etc.
- Node positions should create a logical hierarchy (main concept at top, related concepts below)
- Edge IDs should follow the format "source-target" (e.g., "1-2")
- The first node should always represent the main question
- Each node should have high-quality content with accurate information
- Include 2-4 relevant source links per node (with valid URLs and descriptive names)
- Ensure the edges create a logical connection between related concepts
- Format all content as valid JSON (use double quotes, escape special characters)

TIPS FOR GOOD KNOWLEDGE GRAPHS:
- Start broad, then focus on specific aspects
- Connect related concepts with logical edges
- Balance breadth and depth of exploration
- Include practical, theoretical, and contextual information
- Make sure each node adds unique value to understanding the topic`

const nodeExpansionSystemPrompt = `You are a specialized AI for expanding knowledge graphs. Given a parent node's content,
create a new node that goes deeper into one specific aspect of the parent topic.

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS (in valid JSON format):

{
  "label": "Concise title for this new node (max 60 chars)",
  "details": "Detailed explanation with facts, figures, and context (150-200 words)",
  "sources": [
        {"url": "https://example.com", "name": "Source Name"}
  ],
  "reasoning": "Why this node connects to the parent and how it expands understanding (max 120 chars)",
  "description": "Brief summary of this specific node (max 150 chars)"
}

REQUIREMENTS:
- Focus on ONE specific aspect of the parent node to explore deeper
- Add new information not covered in the parent node
- Include 2-4 relevant source links (with valid URLs and descriptive names)
- have high-quality content with accurate information
- Make sure content is accurate and educational
- Format as valid JSON (use double quotes, escape special characters)`

// buildQuestionCheckPrompt wraps the raw user input for classification
func buildQuestionCheckPrompt(userInput string) string {
	return fmt.Sprintf(`Make a decision: is the following input a valid question?
"%s"
Please respond with "VALID" or "INVALID" only.`, userInput)
}

// buildExpansionPrompt references the parent's label and detail text
func buildExpansionPrompt(parentLabel, parentContent string) string {
	return fmt.Sprintf(`Based on this concept: "%s",
expand on a specific aspect or implication mentioned in this detail:
"%s".

Create a new node that explores this idea further, providing deeper insights,
examples, or connections that weren't covered in the original node.`, parentLabel, parentContent)
}
