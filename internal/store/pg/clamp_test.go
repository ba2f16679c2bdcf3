package pg

import "testing"

func TestClampPagination(t *testing.T) {
	cases := []struct {
		page, pageSize         int
		wantPage, wantPageSize int
	}{
		{1, 20, 1, 20},
		{0, 20, 1, 20},
		{-5, 20, 1, 20},
		{2, 0, 2, 1},
		{2, -1, 2, 1},
		{3, 100, 3, 100},
		{3, 101, 3, 100},
		{1, 99999, 1, 100},
	}
	for _, c := range cases {
		p, ps := clampPagination(c.page, c.pageSize)
		if p != c.wantPage || ps != c.wantPageSize {
			t.Fatalf("clampPagination(%d, %d) = (%d, %d), want (%d, %d)",
				c.page, c.pageSize, p, ps, c.wantPage, c.wantPageSize)
		}
	}
}
