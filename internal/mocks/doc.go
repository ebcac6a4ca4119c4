// Package mocks provides shared test doubles for the store, auth and
// service interfaces.
//
// Most mocks embed testify's mock.Mock and are configured with On/Return:
//
//	articles := new(mocks.MockArticleStore)
//	articles.On("GetByID", mock.Anything, id).Return(article, nil)
//
// MockJWTService uses function fields instead, since most tests only need
// a fixed token or fixed claims.
package mocks
