// Package cognee is a typed client for the Cognee knowledge API.
//
// Every call goes through one pipeline: the bearer token is attached, the
// request is sent with a per-attempt timeout, network faults and 5xx/429
// responses are retried with exponential backoff (1s, 2s, 4s, ...) up to the
// configured budget, and the terminal response is decoded into a Value or
// classified into an *APIError.
//
//	cfg, err := cognee.DefaultConfig("https://api.cognee.ai", apiKey)
//	if err != nil {
//		return err
//	}
//	client, err := cognee.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	datasets, err := client.Datasets().List(ctx)
//	if cognee.IsAuthenticationError(err) {
//		// re-authenticate
//	}
package cognee
