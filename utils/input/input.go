package input

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/railgrid/railsim/utils/config"
)

var log = logrus.WithField("module", "input")

// Input 输入数据
// 功能：存储仿真所需的所有输入数据
// 说明：包含轨道布局与列车路线两类数据，支持从文件或MongoDB加载
type Input struct {
	Layout *TrackLayout
	Routes *Routes
}

// Init 加载数据
// 功能：根据配置初始化并加载所有输入数据
// 参数：c-配置对象
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 数据库连接：如果配置了MongoDB URI则建立连接
// 2. 布局加载：文件优先，否则从MongoDB集合加载
// 3. 路线加载：同上；路线输入允许缺省（纯布局检查场景）
// 4. 基础校验：轨道件ID唯一、路线引用的轨道件存在
// 说明：这是数据加载的主入口，任何加载或校验失败都在此fail fast
func Init(c config.Config) (res *Input) {
	var client *mongo.Client
	if c.Input.URI != "" {
		var err error
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(c.Input.URI))
		if err != nil {
			log.Panicf("failed to connect to mongodb: %v", err)
		}
		defer client.Disconnect(context.Background())
	}

	res = &Input{}
	res.Layout = mustLoad[TrackLayout](client, c.Input.Layout)
	if c.Input.Routes.File != "" || c.Input.Routes.Col != "" {
		res.Routes = mustLoad[Routes](client, c.Input.Routes)
	} else {
		res.Routes = &Routes{}
	}

	// 校验：轨道件ID唯一
	trackIDs := make(map[string]struct{})
	for _, t := range res.Layout.Tracks {
		if t.ID == "" {
			log.Panicf("layout: track without id")
		}
		if _, ok := trackIDs[t.ID]; ok {
			log.Panicf("layout: duplicated track id %s", t.ID)
		}
		trackIDs[t.ID] = struct{}{}
	}
	// 校验：连接与路线引用的轨道件都存在
	for _, t := range res.Layout.Tracks {
		for ep, conn := range t.Connections {
			if _, ok := trackIDs[conn.Track]; !ok {
				log.Panicf("layout: track %s endpoint %s connects to unknown track %s", t.ID, ep, conn.Track)
			}
		}
	}
	for _, train := range res.Routes.Trains {
		if len(train.Route) == 0 {
			log.Panicf("routes: train %d has empty route", train.ID)
		}
		for _, step := range train.Route {
			if _, ok := trackIDs[step.Track]; !ok {
				log.Panicf("routes: train %d references unknown track %s", train.ID, step.Track)
			}
		}
	}

	log.Infof("layout %q: %d tracks", res.Layout.DisplayName, len(res.Layout.Tracks))
	log.Infof("routes: %d trains", len(res.Routes.Trains))
	return
}

// mustLoad 必须加载数据（泛型函数）
// 功能：从文件或MongoDB加载单个输入对象
// 参数：client-MongoDB客户端，inputPath-输入路径配置
// 返回：加载的数据对象
// 说明：文件路径优先于MongoDB；任何加载失败都panic
func mustLoad[T any](client *mongo.Client, inputPath config.InputPath) *T {
	var res T
	if inputPath.File != "" {
		data, err := os.ReadFile(inputPath.File)
		if err != nil {
			log.Panicf("failed to read %s: %v", inputPath.File, err)
		}
		if err := json.Unmarshal(data, &res); err != nil {
			log.Panicf("failed to parse %s: %v", inputPath.File, err)
		}
		return &res
	}
	if client == nil {
		log.Panicf("no file for %s.%s and no mongodb uri configured", inputPath.DB, inputPath.Col)
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	coll := client.Database(inputPath.GetDb()).Collection(inputPath.GetColl())
	// 集合中只保存一个文档，即完整的布局/路线对象
	if err := coll.FindOne(context.Background(), bson.D{}).Decode(&res); err != nil {
		log.Panicf("failed to fetch from %s.%s: %v", inputPath.DB, inputPath.Col, err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	return &res
}
