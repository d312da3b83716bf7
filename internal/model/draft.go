package model

import "io"

// Photo is an image attached to a draft. Body is read once by the upload.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Draft is the unpersisted form state of a listing being authored.
type Draft struct {
	Title       string `form:"title" json:"title"`
	Price       string `form:"price" json:"price"`
	Location    string `form:"location" json:"location"`
	Email       string `form:"email" json:"email"`
	Description string `form:"description" json:"description"`
	Category    string `form:"category" json:"category"`
	Photo       *Photo `form:"-" json:"-"`
}
