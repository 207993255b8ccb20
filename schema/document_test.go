package schema

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/smartystreets/goconvey/convey"
)

func TestDocument(t *testing.T) {
	convey.Convey("文档元数据读写", t, func() {
		d := &Document{ID: "id1", Content: "hello"}

		convey.So(d.Score(), convey.ShouldEqual, 0)
		_, ok := d.Tokens()
		convey.So(ok, convey.ShouldBeFalse)

		d.WithScore(0.8).WithTokens(12)

		convey.So(d.Score(), convey.ShouldEqual, 0.8)
		n, ok := d.Tokens()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(n, convey.ShouldEqual, 12)
		convey.So(d.String(), convey.ShouldEqual, "hello")
	})
}

func TestDocumentTokensAfterDecode(t *testing.T) {
	convey.Convey("编解码后仍能读取 token 数", t, func() {
		raw, err := sonic.Marshal([]*Document{(&Document{ID: "id1", Content: "hi"}).WithTokens(7)})
		convey.So(err, convey.ShouldBeNil)

		var docs []*Document
		convey.So(sonic.Unmarshal(raw, &docs), convey.ShouldBeNil)
		convey.So(docs[0].MetaData[docMetaDataKeyTokens], convey.ShouldHaveSameTypeAs, float64(0))

		n, ok := docs[0].Tokens()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(n, convey.ShouldEqual, 7)
	})

	convey.Convey("非整数或负数视为未设置", t, func() {
		for _, v := range []any{1.5, -2.0, "3"} {
			d := &Document{MetaData: map[string]any{docMetaDataKeyTokens: v}}
			_, ok := d.Tokens()
			convey.So(ok, convey.ShouldBeFalse)
		}
	})
}
