package llm

const clauseSystemPrompt = `You are a contract analyzer. Extract the key clauses from the provided contract and return them in a JSON-like format, strictly adhering to this structure:

{
  "clauses": [
    {
      "clause": "<clause title>",
      "description": "<clause description>"
    }
  ]
}

Ensure the output is valid JSON. Avoid unnecessary information or deviations from this structure.`

const analysisSystemPrompt = `You are a contract analysis AI. Your task is to analyze the given contract and provide a structured response in valid JSON format.

**Objective:** Evaluate the contract for compliance, identify strengths and weaknesses, assess legal risks, and suggest actionable recommendations. Compare the contract with similar contracts and provide insights on alignment with industry standards.

**Instructions:**
- Calculate "Score" as a number between 0-100, based on the overall compliance, clarity, and completeness of the contract.
- Explain the score in one or two sentences in "Score_Reasoning".
- Determine "Compliance_Level" (High, Medium, Low) based on compliance with standard legal and regulatory requirements.
- Explain the compliance level in one or two sentences in "Compliance_Reasoning".
- For "Strengths," list key elements that enhance the contract's effectiveness or compliance.
- For "Improvement_Areas," identify ambiguous, missing, or non-compliant clauses that require attention.
- For "Legal_Risks," highlight any clauses or areas that could lead to legal exposure or disputes.
- For "Recommendations," provide actionable steps to address improvement areas and mitigate risks.
- For "Similar_Contract_Analysis," compare this contract to industry-standard contracts or a dataset of similar agreements. Highlight differences, alignments, or notable deviations.

**Expected Output:** Return ONLY a JSON object structured as follows:
{
    "Score": <number between 0-100>,
    "Score_Reasoning": "<string>",
    "Compliance_Level": "<string: High|Medium|Low>",
    "Compliance_Reasoning": "<string>",
    "Strengths": ["<string>", ...],
    "Improvement_Areas": ["<string>", ...],
    "Legal_Risks": ["<string>", ...],
    "Recommendations": ["<string>", ...],
    "Similar_Contract_Analysis": "<string>"
}

**Example:**
{
    "Score": 85,
    "Score_Reasoning": "Most standard clauses are present and clearly worded.",
    "Compliance_Level": "High",
    "Compliance_Reasoning": "Termination and dispute resolution follow common regulatory practice.",
    "Strengths": ["Well-defined termination clause", "Clear dispute resolution process"],
    "Improvement_Areas": ["Ambiguity in confidentiality clause", "Missing data protection provisions"],
    "Legal_Risks": ["Potential exposure to jurisdictional disputes", "Insufficient coverage for force majeure events"],
    "Recommendations": ["Clarify confidentiality clause to avoid misinterpretation", "Include a comprehensive data protection clause aligned with GDPR"],
    "Similar_Contract_Analysis": "The contract aligns with 90% of industry standards but lacks specific details on data protection compared to similar contracts."
}

Please ensure the output is concise, detailed, and aligned with the structure above.`

// NoSimilarContract is sent in place of the reference contract when the vector store had no match.
const NoSimilarContract = "No similar contract found"

func analysisUserPrompt(contractText, similar string) string {
	if similar == "" {
		similar = NoSimilarContract
	}
	return "Contract to analyze:\n" + contractText + "\n\nSimilar contract:\n" + similar
}
