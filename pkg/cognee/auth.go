package cognee

import "context"

// Login authenticates a user and returns the account.
func (s AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	return postUser(ctx, s.Client, "api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
}

func (s AuthService) Logout(ctx context.Context) (bool, error) {
	return postAck(ctx, s.Client, "api/v1/auth/logout", nil)
}

// Register creates a user account. Fields are passed through unchanged.
func (s AuthService) Register(ctx context.Context, fields map[string]any) (*User, error) {
	return postUser(ctx, s.Client, "api/v1/auth/register", fields)
}

func (s AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	return postAck(ctx, s.Client, "api/v1/auth/forgot-password", map[string]any{"email": email})
}

// Verify confirms an email verification token.
func (s AuthService) Verify(ctx context.Context, token string) (bool, error) {
	return postAck(ctx, s.Client, "api/v1/auth/verify", map[string]any{"token": token})
}

func postUser(ctx context.Context, r Requester, path string, body map[string]any) (*User, error) {
	resp, err := r.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	user := UserFromValue(unwrap(resp, "user"))
	return &user, nil
}

// postAck sends body and discards the response, reporting true on success.
func postAck(ctx context.Context, r Requester, path string, body any) (bool, error) {
	if _, err := r.Post(ctx, path, body); err != nil {
		return false, err
	}
	return true, nil
}
