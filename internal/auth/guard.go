package auth

// RequireOwner is the single authorization rule of the API: a caller may
// mutate a resource only when their account id equals the resource's owner
// id. It applies uniformly to account self-deletion, profile updates and
// product listings.
func RequireOwner(principal *Claims, ownerID string) error {
	if principal == nil || principal.UserID == "" {
		return ErrForbidden
	}
	if principal.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}
