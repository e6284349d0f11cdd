package classifier

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
)

type category struct {
	levels      [4]string
	sensitivity string
	keywords    []string
}

// categories is the label catalogue of the data classification dashboard.
var categories = []category{
	{[4]string{"客户信息", "个人信息", "身份信息", "姓名"}, "high", []string{"姓名", "name"}},
	{[4]string{"客户信息", "个人信息", "身份信息", "身份证号"}, "high", []string{"身份证", "id card", "id number"}},
	{[4]string{"客户信息", "个人信息", "联系方式", "手机号"}, "high", []string{"手机", "电话", "phone", "mobile"}},
	{[4]string{"客户信息", "个人信息", "联系方式", "电子邮箱"}, "medium", []string{"邮箱", "email", "mail"}},
	{[4]string{"客户信息", "个人信息", "地址信息", "家庭住址"}, "high", []string{"地址", "住址", "address"}},
	{[4]string{"客户信息", "企业信息", "工商信息", "企业名称"}, "low", []string{"企业名称", "公司", "company"}},
	{[4]string{"客户信息", "企业信息", "工商信息", "统一社会信用代码"}, "medium", []string{"信用代码", "license"}},
	{[4]string{"财务信息", "账户信息", "银行账户", "银行卡号"}, "high", []string{"卡号", "card"}},
	{[4]string{"财务信息", "账户信息", "银行账户", "开户行"}, "medium", []string{"开户行", "bank"}},
	{[4]string{"财务信息", "交易信息", "交易记录", "交易金额"}, "high", []string{"金额", "amount", "amt"}},
	{[4]string{"财务信息", "交易信息", "交易记录", "交易时间"}, "medium", []string{"交易时间", "时间", "time", "date"}},
	{[4]string{"财务信息", "信用信息", "征信数据", "信用评分"}, "high", []string{"信用评分", "credit", "score"}},
	{[4]string{"产品信息", "商品数据", "商品属性", "商品名称"}, "public", []string{"商品名称", "product name"}},
	{[4]string{"产品信息", "商品数据", "商品属性", "商品价格"}, "low", []string{"价格", "price"}},
	{[4]string{"产品信息", "库存数据", "库存量", "当前库存"}, "medium", []string{"库存", "stock", "inventory"}},
	{[4]string{"运营信息", "用户行为", "访问记录", "访问IP"}, "medium", []string{"ip地址", "ip address", "访问ip"}},
	{[4]string{"业务数据", "基础信息", "单位基础信息", "单位入网信息"}, "low", []string{"商户代码", "机构", "merchant", "institution"}},
	{[4]string{"业务数据", "衍生信息", "商户衍生信息", "商户标签"}, "low", []string{"商户类型", "标签", "tag"}},
	{[4]string{"业务数据", "衍生信息", "个人衍生信息", "个人金额笔数类"}, "medium", []string{"笔数", "count", "cnt"}},
}

// Mock is a deterministic in-process classifier. Descriptions matching a
// category keyword get that category; others are assigned by hash so the
// same description always yields the same verdict.
type Mock struct {
	reverse bool
}

// NewMock creates a Mock. With reverse set, verdicts come back in reverse
// submission order.
func NewMock(reverse bool) *Mock {
	return &Mock{reverse: reverse}
}

func (m *Mock) Classify(ctx context.Context, reqs []Request) ([]Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	out := make([]Verdict, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, m.verdict(r))
	}

	if m.reverse {
		slices.Reverse(out)
	}
	return out, nil
}

func (m *Mock) verdict(r Request) Verdict {
	c, matched := lookup(r.FieldDescription)

	v := Verdict{
		MappingID:   r.MappingID,
		Level1:      c.levels[0],
		Level2:      c.levels[1],
		Level3:      c.levels[2],
		Level4:      c.levels[3],
		Sensitivity: c.sensitivity,
		Confidence:  0.5,
	}

	if matched {
		v.Confidence = 0.9
		v.Reason = fmt.Sprintf("description matches %s", c.levels[3])
	} else {
		v.Reason = "no keyword match; assigned by description hash"
	}
	return v
}

func lookup(desc string) (category, bool) {
	lower := strings.ToLower(desc)
	for _, c := range categories {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c, true
			}
		}
	}

	h := fnv.New32a()
	h.Write([]byte(desc))
	return categories[h.Sum32()%uint32(len(categories))], false
}
