// Package models holds the client-side data types exchanged with the habit
// API and kept in the client stores.
package models
