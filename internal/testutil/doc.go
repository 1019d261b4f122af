// Package testutil contains helper builders and mocks used across tests to
// reduce boilerplate when constructing model directories, tagged sentences
// and model doubles. They are not intended for production usage.
package testutil
