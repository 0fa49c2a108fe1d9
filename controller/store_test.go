package controller_test

import (
	"testing"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/controller/testsuite"
)

func TestInMemStore(t *testing.T) {
	testsuite.Suite(t, controller.InMemStore(), func() {})
}
