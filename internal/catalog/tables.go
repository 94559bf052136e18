package catalog

// Paths are relative to the root of the component library monorepo.
// Several base components share a documentation page (FQRow and FQCol both
// live on the grid page).

var baseDemoPaths = map[string]string{
	"FQBadge":       "packages/fq-weapp-ui-doc/docs/components/presentation/Badge 徽标数.mdx",
	"FQButton":      "packages/fq-weapp-ui-doc/docs/components/basic/Button 按钮.mdx",
	"FQCard":        "packages/fq-weapp-ui-doc/docs/components/presentation/Card 卡片.mdx",
	"FQCheckbox":    "packages/fq-weapp-ui-doc/docs/components/form/Checkbox 复选框.mdx",
	"FQCol":         "packages/fq-weapp-ui-doc/docs/components/basic/Grid 栅格.mdx",
	"FQForm":        "packages/fq-weapp-ui-doc/docs/components/form/FQForm 表单.mdx",
	"FQInputNew":    "packages/fq-weapp-ui-doc/docs/components/form/Input 输入框.mdx",
	"FQModal":       "packages/fq-weapp-ui-doc/docs/components/reaction/Modal 对话框.mdx",
	"FQNoticeBar":   "packages/fq-weapp-ui-doc/docs/components/reaction/NoticeBar 信息通知栏.mdx",
	"FQRadio":       "packages/fq-weapp-ui-doc/docs/components/form/Radio 单选框.mdx",
	"FQRow":         "packages/fq-weapp-ui-doc/docs/components/basic/Grid 栅格.mdx",
	"FQSpriteIcon":  "packages/fq-weapp-ui-doc/docs/components/basic/SpriteIcon 精灵图.mdx",
	"FQStepper":     "packages/fq-weapp-ui-doc/docs/components/form/Stepper 步进器.mdx",
	"FQSwitch":      "packages/fq-weapp-ui-doc/docs/components/form/Switch 开关.mdx",
	"FQTag":         "packages/fq-weapp-ui-doc/docs/components/presentation/Tag 标签.mdx",
	"FQTextareaNew": "packages/fq-weapp-ui-doc/docs/components/form/TextArea 输入框.mdx",
	"FQWaterMark":   "packages/fq-weapp-ui-doc/docs/components/reaction/FQWaterMark 水印.mdx",
}

var proDemoPaths = map[string]string{
	"FQGoodsCard":   "packages/fq-weapp-ui-doc/docs/components-pro/GoodsCard 商品卡片.mdx",
	"FQPrice":       "packages/fq-weapp-ui-doc/docs/components-pro/Price 价格.mdx",
	"FQSearch":      "packages/fq-weapp-ui-doc/docs/components-pro/Search 搜索框.mdx",
	"FQVideoPlayer": "packages/fq-weapp-ui-doc/docs/components-pro/VideoPlayer 视频播放器.mdx",
}

var baseSourcePaths = map[string]string{
	"FQBadge":       "packages/fq-weapp-ui/src/components/badge/index.tsx",
	"FQButton":      "packages/fq-weapp-ui/src/components/button/index.tsx",
	"FQCard":        "packages/fq-weapp-ui/src/components/card/index.tsx",
	"FQCheckbox":    "packages/fq-weapp-ui/src/components/checkbox/index.ts",
	"FQCol":         "packages/fq-weapp-ui/src/components/col/index.ts",
	"FQForm":        "packages/fq-weapp-ui/src/components/form/index.ts",
	"FQInputNew":    "packages/fq-weapp-ui/src/components/input-new/index.tsx",
	"FQModal":       "packages/fq-weapp-ui/src/components/modal/index.tsx",
	"FQNoticeBar":   "packages/fq-weapp-ui/src/components/notice-bar/index.tsx",
	"FQRadio":       "packages/fq-weapp-ui/src/components/radio/index.ts",
	"FQRow":         "packages/fq-weapp-ui/src/components/row/index.ts",
	"FQSpriteIcon":  "packages/fq-weapp-ui/src/components/sprite-icon/index.tsx",
	"FQStepper":     "packages/fq-weapp-ui/src/components/stepper/index.tsx",
	"FQSwitch":      "packages/fq-weapp-ui/src/components/switch/index.tsx",
	"FQTag":         "packages/fq-weapp-ui/src/components/tag/index.tsx",
	"FQTextareaNew": "packages/fq-weapp-ui/src/components/textarea-new/index.tsx",
	"FQWaterMark":   "packages/fq-weapp-ui/src/components/water-mark/index.tsx",
}

var proSourcePaths = map[string]string{
	"FQGoodsCard":   "packages/fq-weapp-ui-pro/src/components/goods-card/index.tsx",
	"FQPrice":       "packages/fq-weapp-ui-pro/src/components/price/index.tsx",
	"FQSearch":      "packages/fq-weapp-ui-pro/src/components/search/index.tsx",
	"FQVideoPlayer": "packages/fq-weapp-ui-pro/src/components/video-player/index.tsx",
}

// TODO: regenerate defaultComponents from the monorepo export index in CI so it
// stops drifting from the published packages.
var defaultComponents = map[string][]string{
	PackageBase: {
		"FQButton", "FQBadge", "FQModal", "FQSpriteIcon", "FQTitle", "FQText",
		"FQNumeral", "FQInputNew", "FQForm", "FQSpaceCompact", "FQNoticeBar",
		"FQTextareaNew", "FQCard", "FQTag", "FQWaterMark",
	},
	PackagePro: {
		"FQGoodsCard", "FQSearch", "FQPrice",
	},
}
