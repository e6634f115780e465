package service

import (
	"fmt"
	"strings"
)

// graderSystemPrompt sets the exacting grading persona used for every
// evaluation completion.
const graderSystemPrompt = "You are an expert machine learning instructor with deep expertise in ML theory, " +
	"pedagogy, and assessment. Your role is to evaluate student answers with precision, " +
	"fairness, and educational value. Apply the following principles:\n" +
	"- **Semantic Understanding**: Focus on conceptual correctness, not just word matching\n" +
	"- **Fair Assessment**: Recognize valid alternative phrasings and equivalent explanations\n" +
	"- **Constructive Feedback**: Identify both strengths and areas for improvement\n" +
	"- **Consistency**: Apply scoring criteria uniformly across all evaluations\n" +
	"- **Pedagogical Value**: Provide explanations that help students learn and improve"

// noviceSystemPrompt is the deliberately imperfect persona used to synthesize
// practice answers.
const noviceSystemPrompt = "You are a confused beginner who only partially understands machine learning. " +
	"When answering questions you make small mistakes and omit key ideas."

// buildEvaluationPrompt renders the six-step grading rubric around the three
// texts. All inputs are embedded verbatim, including an empty student answer.
// Only the generated judgment is requested in the target language; the rubric
// itself stays in English. The template ends with a fixed `Score:` line so the
// score parser has a predictable anchor, though the parser tolerates replies
// that ignore the format.
func buildEvaluationPrompt(question, referenceAnswer, studentAnswer, language string) string {
	var b strings.Builder

	b.WriteString("You are an expert machine learning instructor grading a student's answer to a theory question.\n\n")
	b.WriteString("## Task\nEvaluate the student's answer against the reference answer using a structured, step-by-step approach.\n\n")

	b.WriteString("## Question\n")
	b.WriteString(question)
	b.WriteString("\n\n## Reference Answer (Ideal Answer)\n")
	b.WriteString(referenceAnswer)
	b.WriteString("\n\n## Student's Answer\n")
	b.WriteString(studentAnswer)

	b.WriteString("\n\n## Evaluation Process\nFollow these steps systematically:\n\n")

	b.WriteString("### Step 1: Content Analysis\n")
	b.WriteString("- Identify all key concepts, principles, and facts present in the reference answer\n")
	b.WriteString("- Check which of these concepts appear in the student's answer (even if phrased differently)\n")
	b.WriteString("- Note any additional valid points the student may have included\n\n")

	b.WriteString("### Step 2: Correctness Assessment\n")
	b.WriteString("- **Correct Elements**: List what the student got right, including:\n")
	b.WriteString("  * Accurate definitions or explanations\n")
	b.WriteString("  * Correct conceptual understanding (even with different wording)\n")
	b.WriteString("  * Valid examples or applications\n")
	b.WriteString("- **Missing Elements**: Identify important concepts from the reference that are absent\n")
	b.WriteString("- **Errors/Misconceptions**: Note any incorrect statements, misunderstandings, or conceptual errors\n\n")

	b.WriteString("### Step 3: Semantic Equivalence Evaluation\n")
	b.WriteString("- Consider whether the student's phrasing, while different, conveys the same meaning\n")
	b.WriteString("- Recognize that correct answers can be expressed in multiple valid ways\n")
	b.WriteString("- Do not penalize for stylistic differences if the core understanding is correct\n\n")

	b.WriteString("### Step 4: Completeness Assessment\n")
	b.WriteString("- Evaluate how comprehensively the student addressed the question\n")
	b.WriteString("- Consider the depth of explanation relative to the reference answer\n")
	b.WriteString("- Assess whether critical components are present, even if not all details are included\n\n")

	b.WriteString("### Step 5: Scoring Rubric\n")
	b.WriteString("Assign a score from 0 to 100 based on this detailed rubric:\n\n")
	b.WriteString("**0-30 (Failing)**:\n- Major misconceptions or fundamental errors\n- Completely incorrect understanding\n- No valid concepts identified\n\n")
	b.WriteString("**31-50 (Insufficient)**:\n- Partially correct but missing most key concepts\n- Some understanding but significant gaps\n- Contains notable errors alongside correct elements\n\n")
	b.WriteString("**51-70 (Adequate)**:\n- Mostly correct with some important gaps\n- Demonstrates basic understanding of core concepts\n- Minor errors or omissions that don't fundamentally undermine the answer\n\n")
	b.WriteString("**71-85 (Good)**:\n- Strong understanding with minor gaps or omissions\n- Covers most key concepts accurately\n- May lack some depth or detail compared to reference\n\n")
	b.WriteString("**86-100 (Excellent)**:\n- Comprehensive and accurate answer\n- Demonstrates deep understanding\n- Covers all or nearly all key concepts\n- May include additional valid insights\n\n")

	b.WriteString("### Step 6: Constructive Explanation\n")
	b.WriteString("Provide a detailed explanation that:\n")
	b.WriteString("- Summarizes what the student understood correctly\n")
	b.WriteString("- Clearly identifies what was missing or incorrect\n")
	b.WriteString("- Explains the reasoning behind the assigned score\n")
	b.WriteString("- Offers pedagogical insights for improvement\n\n")

	b.WriteString("## Response Format\n")
	b.WriteString(fmt.Sprintf("Please respond in %s. Use this exact format:\n\n", language))
	b.WriteString("**Step 1 - Content Analysis:**\n[Your analysis here]\n\n")
	b.WriteString("**Step 2 - Correctness Assessment:**\n- Correct Elements: [list]\n- Missing Elements: [list]\n- Errors/Misconceptions: [list]\n\n")
	b.WriteString("**Step 3 - Semantic Equivalence:**\n[Your assessment of whether different phrasings convey equivalent meaning]\n\n")
	b.WriteString("**Step 4 - Completeness:**\n[Your evaluation of how comprehensively the question was addressed]\n\n")
	b.WriteString("**Step 5 - Score Justification:**\n[Explain why this specific score was assigned based on the rubric]\n\n")
	b.WriteString("**Explanation:**\n[Your comprehensive, pedagogical explanation suitable for student feedback]\n\n")
	b.WriteString("**Score:** [A single integer from 0 to 100]\n\n")
	b.WriteString("Begin your evaluation now:")

	return b.String()
}

// buildNovicePrompt asks for a short answer with deliberate gaps.
func buildNovicePrompt(question string) string {
	var b strings.Builder
	b.WriteString("Provide a short answer to the following machine learning question. ")
	b.WriteString("Demonstrate partial understanding but leave small gaps or mistakes.\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nNovice answer:")
	return b.String()
}
