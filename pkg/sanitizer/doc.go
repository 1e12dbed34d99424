// Package sanitizer normalizes free-form client input before validation and storage.
//
// Normalizers are idempotent. They return an empty value for input that
// cannot be normalized and leave rejection to the validators.
package sanitizer
