// Package models defines domain entities and persistence interfaces for the Lysn client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing API data
//   - [AudioRecord] : Server-held metadata for one generated audio narration
//   - [User] : The authenticated account profile
//   - [Session] : An issued session token with account identity
//
// 2. Persistent Entities: Database-backed models for the offline library cache
//   - [CachedAudio] : Locally cached audio metadata with soft delete support
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
