package verdict

// Prompts sent to the generative service. Keep updates centralized here so
// they are easy to tweak without hunting through call sites.

// factCheckPrompt wraps a claim for the grounded verification call. The
// ten-sentence plain-prose instruction keeps verdict length predictable for
// the presentation layer.
const factCheckPrompt = `You are a fact-checking assistant. Analyze the following statement and verify its accuracy using reliable sources from the web.

Statement: "%s"

Provide your analysis in exactly 10 clear, well-structured sentences. Do not use bullet points, asterisks, or numbered lists. Write in flowing paragraphs with proper sentence structure. Include:
- A clear verdict on the accuracy
- Detailed explanation with evidence
- Key facts and context
- Reference to sources when mentioning information

Format your response as natural prose, not as a list.`

// describeImagePrompt asks for an objective description in the ungrounded
// first call of the image flow. Grounding-enabled calls do not accept image
// input directly, so the description is extracted first and then verified as
// text.
const describeImagePrompt = `Analyze this image carefully. Describe what you see including any visible text, claims, people, objects, settings, and notable details. Be objective and thorough in your description.`

// factCheckImagePrompt wraps the extracted description for the grounded
// second call of the image flow.
const factCheckImagePrompt = `You are a fact-checking assistant. Based on this image description, verify any claims or information using reliable web sources.

Image Description: "%s"

Provide your fact-check analysis in exactly 10 clear, well-structured sentences. Do not use bullet points, asterisks, or numbered lists. Write in flowing paragraphs with proper sentence structure. Include:
- Verification of any visible claims or information
- A clear verdict on authenticity
- Additional context and background
- Reference to sources when mentioning information

Format your response as natural prose, not as a list.`
