package openai

// Wire types for the chat completions endpoint. Only the fields this service
// reads or writes are modeled.

type chatCompletionsRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	MaxTokens        int               `json:"max_completion_tokens,omitempty"`
	WebSearchOptions *webSearchOptions `json:"web_search_options,omitempty"`
}

type webSearchOptions struct{}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role        string       `json:"role"`
			Content     string       `json:"content"`
			Annotations []annotation `json:"annotations"`
		} `json:"message"`
	} `json:"choices"`
}

type annotation struct {
	Type        string `json:"type"`
	URLCitation *struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"url_citation"`
}
