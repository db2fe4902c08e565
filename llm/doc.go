// Package llm generates answers with a language model.
//
// Generator wraps any langchaingo llms.Model and applies the sampling
// settings (max tokens, temperature, top-k) on every call:
//
//	gen, err := llm.NewOpenAI(apiKey, "gpt-4o-mini", "", llm.WithMaxTokens(256))
//	if err != nil {
//		return err
//	}
//	answer, err := gen.Generate(ctx, llm.AnswerPrompt(question, ragContext, nil))
package llm
