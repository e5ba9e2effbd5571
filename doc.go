// Package main provides the entry point for the clmk-site web application.
// It runs a bilingual (French/English) community website built on Fiber,
// with a public homepage fed by an aggregation endpoint and an admin back
// office for hero slides, bible verses, team members, news, services,
// gallery images, site settings and users. Data is persisted with gorm and
// uploaded images live on a local or S3 compatible disk.
package main
