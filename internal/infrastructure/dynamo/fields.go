package dynamo

// DynamoDB attribute names used in key maps and expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldPollID        = "poll_id"
	fieldOptions       = "options"
	fieldVotes         = "votes"
	fieldVotedBy       = "voted_by"
	fieldExpiresAt     = "expires_at"
	fieldCreatedAt     = "created_at"
	fieldCreatorSecret = "creator_secret"

	creatorSecretIndex = "creator_secret-index"
)
