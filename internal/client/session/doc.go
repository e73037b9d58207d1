// Package session is the console's single authority on who is logged in.
//
// A Store keeps the authenticated user in memory and mirrors it into two
// storage scopes: the bearer token in the transient scope and the user,
// roles and permissions in the durable scope. Either both scopes hold a
// consistent record or neither does.
//
// Lifecycle:
//
//	Initializing --Resume--> Authenticated | Unauthenticated
//	Unauthenticated --Login--> Authenticated
//	Authenticated --Login--> Authenticated (user replaced)
//	Authenticated --Logout--> Unauthenticated
//
// Store methods never return errors for session failures. Resume and Logout
// log storage problems, and Login reports failure as false.
package session
