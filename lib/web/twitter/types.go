package twitter

// UserCredentials are the per-user OAuth tokens stored at registration time
type UserCredentials struct {
	Token  string
	Secret string
}

// User is the subset of the users/show response the pipeline needs
type User struct {
	ID          string `json:"id_str"`
	ScreenName  string `json:"screen_name"`
	Description string `json:"description"`
}

type apiErrorResponse struct {
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
