// Package roster serves the user roster page.
//
// Each browser session owns one roster controller, created on first visit and
// kept in memory until its cookie expires. The page is server-rendered; htmx
// swaps the #roster fragment after every action, and plain form posts
// redirect back to the page.
package roster
