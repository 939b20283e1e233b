// The x/egl module governs the block gas limit. Accounts lock tokens to vote
// for a desired gas limit, votes are weighted by amount and lockup duration,
// and every epoch the module tallies the votes and moves the desired gas limit
// toward the weighted average when enough tokens took part. It also pays a
// creator reward schedule and voter rewards, scores block gas limits by their
// distance from the desired value and runs two bounded candidate votes for
// treasury disbursements and upgrade approval.
package egl
