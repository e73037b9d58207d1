// Package services contains the console's application services: browsing
// API resources and downloading generated reports on behalf of the current
// session.
package services
