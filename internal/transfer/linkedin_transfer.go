package transfer

type LinkedinShareRequest struct {
	Author          string                    `json:"author"`
	LifecycleState  string                    `json:"lifecycleState"`
	SpecificContent LinkedinSpecificContent   `json:"specificContent"`
	Visibility      LinkedinShareVisibilities `json:"visibility"`
}

type LinkedinSpecificContent struct {
	ShareContent LinkedinShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type LinkedinShareContent struct {
	ShareCommentary    LinkedinText    `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
	Media              []LinkedinMedia `json:"media,omitempty"`
}

type LinkedinText struct {
	Text string `json:"text"`
}

type LinkedinMedia struct {
	Status      string       `json:"status"`
	OriginalURL string       `json:"originalUrl"`
	Title       LinkedinText `json:"title,omitempty"`
}

type LinkedinShareVisibilities struct {
	Visibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type LinkedinShareResponse struct {
	ID string `json:"id"`
}

type LinkedinUserInfo struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

type LinkedinErrorResponse struct {
	Message       string `json:"message"`
	ServiceError  int    `json:"serviceErrorCode"`
	Status        int    `json:"status"`
	RequestID     string `json:"requestId,omitempty"`
	ErrorDetailID string `json:"errorDetailType,omitempty"`
}
