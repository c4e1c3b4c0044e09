package model

import "time"

// Event is a scheduled book-discussion session tied to a club and a café.
// Date carries the start instant; Time is the human readable Persian time
// range shown to visitors (e.g. "ساعت ۱۶:۰۰ تا ۱۸:۰۰").
//
// Fields:
//  ID          – primary key identifier.
//  BookTitle   – title of the book discussed.
//  Author      – author of the book.
//  Description – free-text description.
//  Category    – literary category (رمان کلاسیک, شعر معاصر, ...).
//  Date        – when the session starts.
//  Time        – display time range.
//  Capacity    – maximum number of registrations, at least 1.
//  ImageURL    – optional cover image.
//  ClubID      – hosting club.
//  CafeID      – hosting café.
//  CreatedAt   – creation timestamp.
type Event struct {
	ID          string    `json:"id"`
	BookTitle   string    `json:"bookTitle"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Capacity    int       `json:"capacity"`
	ImageURL    *string   `json:"imageUrl"`
	ClubID      string    `json:"clubId"`
	CafeID      string    `json:"cafeId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventWithCount is the list/detail representation returned by the API.
type EventWithCount struct {
	Event
	RegistrationCount int `json:"registrationCount"`
}
