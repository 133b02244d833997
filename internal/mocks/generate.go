package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ScheduleFeed --dir ../usecase --output usecase --outpkg usecasemock --filename schedule_feed_mock.go
