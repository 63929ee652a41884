package transfer

type InstagramContainerResponse struct {
	ID    string         `json:"id"`
	Error InstagramError `json:"error"`
}

type InstagramPublishResponse struct {
	ID    string         `json:"id"`
	Error InstagramError `json:"error"`
}

type InstagramError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	IsTransient  bool   `json:"is_transient"`
	FbtraceID    string `json:"fbtrace_id"`
}

type InstagramRefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
