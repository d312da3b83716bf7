package service

// User-facing notices.
const (
	NoticeUploadFailed      = "Image upload failed"
	NoticeCreateFailed      = "Failed to create listing: "
	NoticeNoCategory        = "No matching category found."
	NoticeInvalidBuyerEmail = "Please enter a valid email"
	NoticeMessageFailed     = "Message sending failed"
	NoticeMessageSent       = "Message sent successfully!"
)
